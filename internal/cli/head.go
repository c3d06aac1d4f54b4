package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newHeadCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "head URL",
		Short: "Make a HEAD request and show only the response headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, f, http.MethodHead, args[0])
		},
	}
	addRequestFlags(cmd, f, false)
	return cmd
}
