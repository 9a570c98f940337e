package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"iql"
	"iql/internal/diagfmt"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] 'query'",
	Short: "Parse a clause query and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	query, err := readQueryArg(args[0])
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	q, res := iql.Parse(query)
	if q == nil {
		cmd.SilenceUsage = true
		if len(res.Suggestions) > 0 {
			return fmt.Errorf("%s: %s (did you mean: %s?)",
				res.Error.Code.ID(), res.Error.Message, strings.Join(res.Suggestions, ", "))
		}
		return fmt.Errorf("%s: %s", res.Error.Code.ID(), res.Error.Message)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	switch format {
	case "pretty":
		return diagfmt.FormatQueryPretty(os.Stdout, q)
	case "json":
		return diagfmt.FormatQueryJSON(os.Stdout, q)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
