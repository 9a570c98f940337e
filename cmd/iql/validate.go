package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iql"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] 'query'",
	Short: "Check a query for syntax and template errors",
	Long: `Validate checks a clause query without evaluating it. The fast tier is a
string-level pre-check; the full tier parses the query and resolves every
template against the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("tier", "full", "validation tier (fast|full)")
	validateCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	query, err := readQueryArg(args[0])
	if err != nil {
		return err
	}

	tierFlag, err := cmd.Flags().GetString("tier")
	if err != nil {
		return fmt.Errorf("failed to get tier flag: %w", err)
	}
	var tier iql.Tier
	switch tierFlag {
	case "fast":
		tier = iql.TierFast
	case "full":
		tier = iql.TierFull
	default:
		return fmt.Errorf("unknown tier: %s", tierFlag)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	res := iql.Validate(query, tier)

	switch format {
	case "json":
		if err := printValidationJSON(cmd, res); err != nil {
			return err
		}
	case "pretty":
		printValidationPretty(cmd, res, useColor(cmd, os.Stdout))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !res.Valid {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("query is invalid")
	}
	return nil
}

type validationJSON struct {
	Valid       bool     `json:"valid"`
	Code        string   `json:"code,omitempty"`
	Message     string   `json:"message,omitempty"`
	StartByte   uint32   `json:"start_byte,omitempty"`
	EndByte     uint32   `json:"end_byte,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func printValidationJSON(cmd *cobra.Command, res iql.ValidationResult) error {
	payload := validationJSON{
		Valid:       res.Valid,
		Suggestions: res.Suggestions,
		Warnings:    res.Warnings,
	}
	if res.Error != nil {
		payload.Code = res.Error.Code.ID()
		payload.Message = res.Error.Message
		payload.StartByte = res.Error.Span.Start
		payload.EndByte = res.Error.Span.End
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printValidationPretty(cmd *cobra.Command, res iql.ValidationResult, colored bool) {
	out := cmd.OutOrStdout()
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	if res.Valid {
		okLabel := "valid"
		if colored {
			okLabel = color.New(color.FgGreen, color.Bold).Sprint(okLabel)
		}
		fmt.Fprintln(out, okLabel)
		if !quiet {
			for _, w := range res.Warnings {
				warnLabel := "warning:"
				if colored {
					warnLabel = color.New(color.FgYellow, color.Bold).Sprint(warnLabel)
				}
				fmt.Fprintf(out, "%s %s\n", warnLabel, w)
			}
		}
		return
	}

	errLabel := "error"
	if colored {
		errLabel = color.New(color.FgRed, color.Bold).Sprint(errLabel)
	}
	fmt.Fprintf(out, "%s %s: %s\n", errLabel, res.Error.Code.ID(), res.Error.Message)
	if len(res.Suggestions) > 0 {
		fmt.Fprintf(out, "did you mean: %s?\n", strings.Join(res.Suggestions, ", "))
	}
}
