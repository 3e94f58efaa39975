package synth

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"navigator/internal/domain"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var (
	systemPrompt string
	userTemplate *template.Template
)

func init() {
	data, err := promptTemplates.ReadFile("templates/system_prompt.txt")
	if err != nil {
		panic(err)
	}
	systemPrompt = strings.TrimSpace(string(data))

	data, err = promptTemplates.ReadFile("templates/user_prompt.txt")
	if err != nil {
		panic(err)
	}
	userTemplate = template.Must(template.New("user").Parse(string(data)))
}

// PromptData is rendered into the user prompt.
type PromptData struct {
	Question  string
	Fragments []domain.Fragment
}

// BuildPrompt returns the system instruction and the user prompt holding
// the context block and the question.
func BuildPrompt(question string, fragments []domain.Fragment) (string, string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, PromptData{Question: question, Fragments: fragments}); err != nil {
		return "", "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return systemPrompt, buf.String(), nil
}
