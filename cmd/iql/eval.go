package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"iql"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] 'query' document...",
	Short: "Evaluate a clause query against document files",
	Long: `Eval scores a query against one or more documents through the scoring
backend. With several documents it prints a per-document table and a
summary. Scorer settings come from iql.toml and can be overridden with
flags.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("model", "", "backend model (defaults to config or the full classifier)")
	evalCmd.Flags().Int("concurrency", 0, "maximum in-flight scoring calls")
	evalCmd.Flags().Duration("timeout", 0, "per-call scoring timeout")
	evalCmd.Flags().Bool("lenient", false, "score failing statements as 0 instead of aborting")
	evalCmd.Flags().Bool("no-cache", false, "bypass the on-disk score cache")
	evalCmd.Flags().Bool("spans", false, "print matched spans per document")
	evalCmd.Flags().Bool("cost", false, "print the estimated scoring cost of the query")
}

func runEval(cmd *cobra.Command, args []string) error {
	query, err := readQueryArg(args[0])
	if err != nil {
		return err
	}

	q, res := iql.Parse(query)
	if q == nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("%s: %s", res.Error.Code.ID(), res.Error.Message)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	evaluator, model, err := buildEvaluator(cmd)
	if err != nil {
		return err
	}
	if showCost, _ := cmd.Flags().GetBool("cost"); showCost {
		fmt.Fprintf(cmd.OutOrStdout(), "estimated cost: %d tokens (%s)\n",
			iql.EstimateCost(q, model), model)
	}

	docs, err := loadDocuments(args[1:])
	if err != nil {
		return err
	}

	colored := useColor(cmd, os.Stdout)
	showSpans, _ := cmd.Flags().GetBool("spans")

	if len(docs) == 1 {
		match, err := evaluator.Evaluate(cmd.Context(), q, docs[0].Content)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		printMatch(cmd, docs[0], match, colored, showSpans, quiet)
		return nil
	}

	results, summary, err := evaluator.EvaluateAll(cmd.Context(), q, docs)
	if err != nil {
		cmd.SilenceUsage = true
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n", r.Document.Name, r.Err)
			continue
		}
		printMatch(cmd, r.Document, r.Match, colored, showSpans, quiet)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d documents, %d matched spans, average score %.3f",
		len(results), summary.TotalMatches, summary.AverageScore)
	if summary.Failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", %d failed", summary.Failed)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func buildEvaluator(cmd *cobra.Command) (*iql.Evaluator, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", configFileName, err)
	}

	sc := cfg.scorerConfig()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		sc.Model = model
	}
	if sc.Model == "" {
		sc.Model = iql.ModelUniversal
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		sc.CacheDir = ""
	}
	scorer, err := iql.NewScorer(sc)
	if err != nil {
		return nil, "", err
	}

	opts := cfg.evalOptions()
	if c, _ := cmd.Flags().GetInt("concurrency"); c > 0 {
		opts.Concurrency = c
	}
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		opts.Timeout = t
	}
	if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
		opts.Lenient = true
	}
	return iql.NewEvaluator(scorer, opts), sc.Model, nil
}

func loadDocuments(paths []string) ([]iql.Document, error) {
	docs := make([]iql.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		docs = append(docs, iql.Document{
			ID:      p,
			Name:    filepath.Base(p),
			Content: string(data),
		})
	}
	return docs, nil
}

func printMatch(cmd *cobra.Command, doc iql.Document, match iql.MatchResult, colored, showSpans, quiet bool) {
	out := cmd.OutOrStdout()

	score := fmt.Sprintf("%.3f", match.Score)
	if colored {
		score = scoreColor(match.Score).Sprint(score)
	}
	fmt.Fprintf(out, "%s: %s (%d spans)\n", doc.Name, score, len(match.Spans))

	if !quiet {
		for _, w := range match.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
	if showSpans {
		for _, sp := range match.Spans {
			excerpt := doc.Content
			if int(sp.End) <= len(excerpt) && sp.Start < sp.End {
				excerpt = excerpt[sp.Start:sp.End]
			}
			fmt.Fprintf(out, "  [%d..%d] %s\n", sp.Start, sp.End, firstLine(excerpt))
		}
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.5:
		return color.New(color.FgGreen, color.Bold)
	case score >= 0.25:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	const maxLen = 120
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
