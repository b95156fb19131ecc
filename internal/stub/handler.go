package stub

import (
	"io"
	"net/http"
	"time"

	"github.com/davebream/rpcstub/internal/protocol"
)

// NewHandler returns the RPC handler. Every POST, on any path and without
// path cleaning or redirects, is answered with status 200 and a JSON body.
// Other HTTP methods get 405. A positive maxBodyBytes caps how much of a
// declared Content-Length is read; zero reads the full declared length.
func NewHandler(metrics *Metrics, maxBodyBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()

		reply, label, err := protocol.Handle(readBody(r, maxBodyBytes))
		if err != nil {
			http.Error(w, "encode response", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(reply)

		metrics.observe(label, time.Since(start))
	})
}

// readBody reads exactly Content-Length bytes, or at most limit when limit
// is positive. A missing length (including chunked uploads) reads as an
// empty body. Read errors are not surfaced: whatever arrived is parsed and
// a short body fails as invalid JSON.
func readBody(r *http.Request, limit int64) []byte {
	n := r.ContentLength
	if n <= 0 {
		return nil
	}
	if limit > 0 && n > limit {
		n = limit
	}
	body, _ := io.ReadAll(io.LimitReader(r.Body, n))
	return body
}
