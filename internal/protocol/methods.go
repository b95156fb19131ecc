package protocol

import (
	"encoding/json"
	"math/big"
	"sort"
)

// Canned method names.
const (
	MethodBlockNumber        = "eth_blockNumber"
	MethodGetBalance         = "eth_getBalance"
	MethodSendRawTransaction = "eth_sendRawTransaction"
	MethodGetStatus          = "getStatus"
	MethodGetAccountInfo     = "get_account_info"
)

// Metric labels for calls that do not name a canned method.
const (
	LabelUnknown     = "unknown"
	LabelInvalidJSON = "invalid_json"
)

const (
	mockBlockNumber = 100
	mockTxHash      = "0xmocktx"
)

// mockBalance is 1 ether in wei.
var mockBalance = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var statusOK = map[string]string{"status": "ok"}

// cannedResults holds the pre-encoded result of every known method. It is
// filled once at package init and never written afterwards.
var cannedResults = map[string]json.RawMessage{
	MethodBlockNumber:        mustEncode(hexQuantity(big.NewInt(mockBlockNumber))),
	MethodGetBalance:         mustEncode(hexQuantity(mockBalance)),
	MethodSendRawTransaction: mustEncode(mockTxHash),
	MethodGetStatus:          mustEncode(statusOK),
	MethodGetAccountInfo:     mustEncode(statusOK),
}

var nullResult = json.RawMessage(`null`)

// hexQuantity renders n as a lowercase 0x-prefixed hex string.
func hexQuantity(n *big.Int) string {
	return "0x" + n.Text(16)
}

func mustEncode(v any) json.RawMessage {
	data, err := Encode(v)
	if err != nil {
		panic("protocol: encode canned result: " + err.Error())
	}
	return data
}

// Lookup returns the canned result for method by exact match, or JSON null.
// The returned slice is shared and must not be modified.
func Lookup(method string) json.RawMessage {
	if result, ok := cannedResults[method]; ok {
		return result
	}
	return nullResult
}

// IsKnown reports whether method has a canned result.
func IsKnown(method string) bool {
	_, ok := cannedResults[method]
	return ok
}

// Methods returns the canned method names in sorted order.
func Methods() []string {
	names := make([]string, 0, len(cannedResults))
	for name := range cannedResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricLabel maps a method to a bounded label set.
func MetricLabel(method string) string {
	if IsKnown(method) {
		return method
	}
	return LabelUnknown
}
