package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newGetCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Make a GET request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, f, http.MethodGet, args[0])
		},
	}
	addRequestFlags(cmd, f, false)
	return cmd
}
