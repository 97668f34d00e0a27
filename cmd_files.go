package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files <owner/repo> <pr>",
	Short: "List a PR's changed files",
	Long: `Lists the files changed by a pull request with their status and diff
stats, in the order the server returns them.

Examples:
  ghpr files myorg/myrepo 42
  ghpr files myorg/myrepo 42 --raw`,
	RunE: runFiles,
	Args: cobra.ExactArgs(2),
}

var flagFilesRaw bool

func init() {
	filesCmd.Flags().BoolVarP(&flagFilesRaw, "raw", "r", false, "Output raw JSON (includes patch hunks)")
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	owner, repo, err := parseRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseNumber(args[1], "PR number")
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	files, err := client.ListFiles(cmd.Context(), owner, repo, number)
	if err != nil {
		return err
	}

	if flagFilesRaw {
		return printRaw(files)
	}

	if len(files) == 0 {
		fmt.Println("No changed files")
		return nil
	}

	w := newTab()
	fmt.Fprintln(w, "STATUS\tFILE\tCHANGES")
	for _, f := range files {
		path := f.Path
		if f.Status == "renamed" && f.PreviousPath != "" {
			path = f.PreviousPath + " -> " + f.Path
		}
		fmt.Fprintf(w, "%s\t%s\t+%d/-%d\n", f.Status, path, f.Additions, f.Deletions)
	}
	return w.Flush()
}
