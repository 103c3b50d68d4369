package llm

import (
	"strings"
	"text/template"

	"go-summarizer/internal/loader"
)

// FragmentSeparator joins fragments before they are stuffed into the prompt
const FragmentSeparator = "\n\n"

const promptText = `
Provide a summary of the following content in about 300 words:

{{.Context}}
`

var promptTemplate = template.Must(template.New("summary").Parse(promptText))

// Stuff concatenates every fragment into a single blob
func Stuff(frags []loader.Fragment) string {
	texts := make([]string, 0, len(frags))
	for _, f := range frags {
		texts = append(texts, f.Text)
	}
	return strings.Join(texts, FragmentSeparator)
}

// BuildPrompt embeds text into the fixed summary instruction
func BuildPrompt(text string) string {
	var b strings.Builder
	// Executing into a strings.Builder with a plain string field cannot fail.
	_ = promptTemplate.Execute(&b, struct{ Context string }{Context: text})
	return b.String()
}
