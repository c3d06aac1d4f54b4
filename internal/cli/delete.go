package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newDeleteCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "delete URL",
		Short: "Make a DELETE request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, f, http.MethodDelete, args[0])
		},
	}
	addRequestFlags(cmd, f, true)
	return cmd
}
