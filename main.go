package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghpr",
	Short: "GitHub issue, PR and review CLI",
	Long: `ghpr wraps the GitHub REST and GraphQL APIs for fetching issues and
pull requests, posting comments and replies, resolving review threads,
merging, and running batched review sessions backed by a local draft
file.

Each invocation is a single synchronous round trip; nothing is retried
automatically. The only state kept between invocations is the draft
review file created by 'ghpr init-review'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var flagVerbose bool

func init() {
	initConfig()
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	logrus.SetOutput(os.Stderr)
}

// newClient resolves the ambient credential and builds the API client.
func newClient() (*Client, error) {
	token, err := resolveToken()
	if err != nil {
		return nil, apiErr(AuthError, "resolve token", err)
	}
	return NewClient(token), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// APIError already names its kind; everything else is a plain message.
		fmt.Fprintf(os.Stderr, "ghpr: %v\n", err)
		os.Exit(1)
	}
}
