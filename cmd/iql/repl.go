package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"iql"
	"iql/internal/eval"
	"iql/internal/template"
	"iql/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl [flags]",
	Short: "Interactive query prompt with live validation",
	Long: `Repl opens an interactive prompt. Every keystroke runs the fast
validation tier; Enter runs the full tier. With --doc, valid queries are
also scored against the document.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().String("doc", "", "document file to score queries against")
	replCmd.Flags().Bool("lenient", false, "score failing statements as 0 instead of aborting")
}

func runRepl(cmd *cobra.Command, args []string) error {
	docPath, err := cmd.Flags().GetString("doc")
	if err != nil {
		return fmt.Errorf("failed to get doc flag: %w", err)
	}

	var evaluator *eval.Evaluator
	var corpus string
	if docPath != "" {
		data, err := os.ReadFile(docPath)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		corpus = string(data)

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", configFileName, err)
		}
		scorer, err := iql.NewScorer(cfg.scorerConfig())
		if err != nil {
			return err
		}
		opts := cfg.evalOptions()
		if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
			opts.Lenient = true
		}
		evaluator = eval.New(scorer, eval.Options{
			Concurrency:   opts.Concurrency,
			Timeout:       opts.Timeout,
			LenientLeaves: opts.Lenient,
		})
	}

	model := ui.NewReplModel(template.Builtin(), evaluator, corpus)
	_, err = tea.NewProgram(model).Run()
	return err
}
