package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newPutCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "put URL",
		Short: "Make a PUT request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, f, http.MethodPut, args[0])
		},
	}
	addRequestFlags(cmd, f, true)
	return cmd
}
