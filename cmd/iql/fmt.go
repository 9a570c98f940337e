package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iql"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] 'query'",
	Short: "Print the canonical form of a clause query",
	Long: `Fmt parses a query and prints it back in canonical form: every
statement in braces, keywords upper-case, single spacing.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func runFmt(cmd *cobra.Command, args []string) error {
	query, err := readQueryArg(args[0])
	if err != nil {
		return err
	}

	q, res := iql.Parse(query)
	if q == nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("%s: %s", res.Error.Code.ID(), res.Error.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), iql.Format(q))
	return nil
}
