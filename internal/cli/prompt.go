package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"navigator/internal/adapter/synth"
	"navigator/internal/domain"
)

var (
	promptQuestion string
	promptTopK     int
	promptSystem   bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the grounded prompt for a question",
	Long: `Retrieve the fragments for a question and print the prompt that would be
sent to the generative model, for use with a model of your choice.

Examples:
  navigator prompt -q "How do plants make energy?"
  navigator prompt -q "What is respiration?" --system`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVarP(&promptQuestion, "question", "q", "", "question to answer (required)")
	promptCmd.Flags().IntVarP(&promptTopK, "top-k", "k", 0, "number of fragments (default from config)")
	promptCmd.Flags().BoolVar(&promptSystem, "system", false, "also print the system instruction")
	promptCmd.MarkFlagRequired("question")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	stack, err := newQueryStack(cmd.Context(), cfg, GetRootDir())
	if err != nil {
		return err
	}
	if _, err := stack.runtime.Reload(); err != nil {
		return fmt.Errorf("%w (run 'navigator ingest' first)", err)
	}

	sources, err := stack.ask.Retrieve(cmd.Context(), promptQuestion, promptTopK)
	if err != nil {
		return err
	}
	system, user, err := renderPrompt(promptQuestion, sources)
	if err != nil {
		return err
	}

	if promptSystem {
		fmt.Println(system)
		fmt.Println()
	}
	fmt.Println(user)
	return nil
}

// renderPrompt builds the prompt exactly as ask would send it.
func renderPrompt(question string, sources []domain.ScoredFragment) (string, string, error) {
	fragments := make([]domain.Fragment, len(sources))
	for i, s := range sources {
		fragments[i] = s.Fragment
	}
	return synth.BuildPrompt(strings.TrimSpace(question), fragments)
}
