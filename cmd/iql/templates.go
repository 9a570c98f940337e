package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"iql"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [flags]",
	Short: "List the built-in statement templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	templatesCmd.Flags().Bool("costs", false, "include per-model cost estimates")
}

type templateJSON struct {
	Name                string         `json:"name"`
	DisplayName         string         `json:"display_name"`
	RequiresParameter   bool           `json:"requires_parameter"`
	RecommendsParameter bool           `json:"recommends_parameter"`
	CostByModel         map[string]int `json:"cost_by_model,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showCosts, err := cmd.Flags().GetBool("costs")
	if err != nil {
		return fmt.Errorf("failed to get costs flag: %w", err)
	}

	all := iql.Templates()

	if format == "json" {
		payload := make([]templateJSON, 0, len(all))
		for _, t := range all {
			tj := templateJSON{
				Name:                t.Name,
				DisplayName:         displayName(t),
				RequiresParameter:   t.RequiresParameter,
				RecommendsParameter: t.RecommendsParameter,
			}
			if showCosts {
				tj.CostByModel = t.CostByModel
			}
			payload = append(payload, tj)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	if format != "pretty" {
		return fmt.Errorf("unknown format: %s", format)
	}

	colored := useColor(cmd, os.Stdout)
	bold := color.New(color.Bold)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	for _, t := range all {
		name := "{IS " + t.Name + "}"
		if colored {
			name = bold.Sprint(name)
		}
		param := ""
		switch {
		case t.RequiresParameter:
			param = "parameter required"
		case t.RecommendsParameter:
			param = "parameter recommended"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, displayName(t), param)
		if showCosts {
			for model, cost := range t.CostByModel {
				fmt.Fprintf(w, "\t%s\t%d\n", model, cost)
			}
		}
	}
	return w.Flush()
}

var titleCaser = cases.Title(language.English)

// displayName falls back to title-casing the registry key when no explicit
// display name was registered.
func displayName(t iql.Template) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return titleCaser.String(t.Name)
}
