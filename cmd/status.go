package cmd

import (
	"bytes"
	"fmt"

	"github.com/davebream/rpcstub/internal/client"
	"github.com/davebream/rpcstub/internal/protocol"
	"github.com/spf13/cobra"
)

var statusURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that a stub is answering",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		reply, err := client.New(statusURL).Call(cmd.Context(), protocol.MethodGetStatus)
		if err != nil {
			fmt.Fprintf(out, "Stub: not reachable at %s\n", statusURL)
			return err
		}

		if !bytes.Equal(reply.Result, protocol.Lookup(protocol.MethodGetStatus)) {
			fmt.Fprintf(out, "Stub: unexpected status %s at %s\n", reply.Result, statusURL)
			return fmt.Errorf("unexpected getStatus result %s", reply.Result)
		}

		fmt.Fprintf(out, "Stub: running at %s\n", statusURL)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusURL, "url", "http://127.0.0.1:8545", "Stub endpoint")
	rootCmd.AddCommand(statusCmd)
}
