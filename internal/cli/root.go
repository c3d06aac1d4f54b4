package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// globalFlags are shared by every request command
type globalFlags struct {
	output   string
	verbose  bool
	noColor  bool
	config   string
	profile  string
	logLevel string
	logFile  string
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:     "hopper",
		Short:   "A terminal HTTP client that follows redirects itself",
		Version: version,
		Long: `Hopper sends HTTP requests from the terminal and follows redirect
chains hop by hop, carrying the method, headers, cookies and referer along
the way. Profiles in a YAML or JSON file hold per-environment defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.output, "output", "o", "text", "Output format (text, json, yaml)")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Show timing, headers and cookies")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&g.config, "config", "", "Profile file (YAML or JSON)")
	flags.StringVar(&g.profile, "profile", "", "Profile to use from the profile file")
	flags.StringVar(&g.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&g.logFile, "log-file", "", "Also write JSON logs to this file, rotated by size")

	cmd.AddCommand(
		newGetCmd(g),
		newPostCmd(g),
		newPutCmd(g),
		newDeleteCmd(g),
		newHeadCmd(g),
	)
	return cmd
}

// Execute runs the root command and reports any error on stderr.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
