package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newPostCmd(g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "Make a POST request to the specified URL",
		Long: `Make a POST request. --data is sent form-encoded (prefix a file name
with @ to read it), --json and --field build a JSON body.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, f, http.MethodPost, args[0])
		},
	}
	addRequestFlags(cmd, f, true)
	return cmd
}
