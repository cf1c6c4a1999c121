package generation

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a question writer for a competitive-exam preparation platform.
You produce one multiple-choice question at a time, calibrated to the requested exam
and difficulty, with exactly four options labelled A to D and exactly one correct option.
The explanation must justify the correct answer on its own, without referring to any
particular submitted answer. Respond with JSON only.`

// questionSchema is the JSON schema sent to providers that support
// structured output.
var questionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question text shown to the candidate",
		},
		"options": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"label": map[string]any{"type": "string"},
					"text":  map[string]any{"type": "string"},
				},
				"required":             []any{"label", "text"},
				"additionalProperties": false,
			},
			"description": "Exactly 4 options labelled A, B, C, D in order",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "The label of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Outcome-agnostic worked rationale for the correct answer",
		},
		"subject": map[string]any{
			"type":        "string",
			"description": "The subject this question belongs to",
		},
		"topic": map[string]any{
			"type":        "string",
			"description": "The topic within the subject",
		},
	},
	"required":             []any{"prompt", "options", "correct_answer", "explanation", "subject", "topic"},
	"additionalProperties": false,
}

const schemaName = "exam-question"

// buildUserMessage renders the generation request as a user prompt.
func buildUserMessage(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write one %s multiple-choice question for the %q exam.", req.Difficulty, req.ExamID)
	if req.Subject != "" {
		fmt.Fprintf(&b, " Subject: %s.", req.Subject)
	}
	if req.Topic != "" {
		fmt.Fprintf(&b, " Topic: %s.", req.Topic)
	}
	b.WriteString(" Return JSON matching the provided schema.")
	return b.String()
}
