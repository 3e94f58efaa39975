package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"navigator/internal/domain"
)

var (
	askQuestion string
	askTopK     int
	askJSON     bool
	askNoSynth  bool
)

var (
	answerStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from the indexed corpus",
	Long: `Retrieve the paragraphs closest to the question and ask the generative
model to answer using only them. The sources are listed with their
distance to the question.

Examples:
  navigator ask -q "How do plants make energy?"
  navigator ask -q "What is cellular respiration?" -k 3 --json
  navigator ask -q "photosynthesis" --retrieve-only`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of fragments (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.Flags().BoolVar(&askNoSynth, "retrieve-only", false, "list sources without calling the generative model")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	stack, err := newQueryStack(cmd.Context(), cfg, GetRootDir())
	if err != nil {
		return err
	}
	if _, err := stack.runtime.Reload(); err != nil {
		return fmt.Errorf("%w (run 'navigator ingest' first)", err)
	}

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	var answer *domain.Answer
	if askNoSynth {
		sources, err := stack.ask.Retrieve(cmd.Context(), askQuestion, topK)
		if err != nil {
			return err
		}
		answer = &domain.Answer{Question: strings.TrimSpace(askQuestion), Sources: sources}
	} else {
		answer, err = stack.ask.AskK(cmd.Context(), askQuestion, topK)
		if err != nil {
			return err
		}
	}

	if askJSON {
		return writeAnswerJSON(os.Stdout, answer)
	}

	printAnswer(answer)
	return nil
}

func printAnswer(a *domain.Answer) {
	if a.Answer != "" {
		fmt.Println(headerStyle.Render("Answer"))
		if a.Degraded {
			fmt.Println(answerStyle.Render(degradedStyle.Render(a.Answer)))
		} else {
			fmt.Println(answerStyle.Render(a.Answer))
		}
		fmt.Println()
	}

	if len(a.Sources) == 0 {
		fmt.Println("No sources found.")
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Sources (%d)", len(a.Sources))))
	for i, s := range a.Sources {
		fmt.Printf("%s %s\n", sourceStyle.Render(fmt.Sprintf("[%d] %s", i+1, s.Fragment.Source)),
			dimStyle.Render(fmt.Sprintf("(distance: %.4f)", s.Distance)))
		fmt.Println(truncate(s.Fragment.Text, 500))
		fmt.Println()
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func writeAnswerJSON(w io.Writer, a *domain.Answer) error {
	output, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(output)); err != nil {
		return fmt.Errorf("write answer: %w", err)
	}
	return nil
}
