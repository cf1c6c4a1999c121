package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepdesk/prepdesk-backend/internal/model"
)

// questionOutput is the raw model response before validation.
type questionOutput struct {
	Prompt        string         `json:"prompt"`
	Options       []model.Option `json:"options"`
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation"`
	Subject       string         `json:"subject"`
	Topic         string         `json:"topic"`
}

// parseGenerated decodes and validates a model response. The request's
// subject/topic, when set, win over whatever the model reports so a
// question always lands in the slot that asked for it.
func parseGenerated(raw json.RawMessage, req Request) (*GeneratedQuestion, error) {
	var out questionOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ErrInvalidOutput{Content: raw, Err: err}
	}

	if strings.TrimSpace(out.Prompt) == "" {
		return nil, &ErrInvalidOutput{Content: raw, Err: fmt.Errorf("empty prompt")}
	}
	if len(out.Options) < 2 {
		return nil, &ErrInvalidOutput{Content: raw, Err: fmt.Errorf("got %d options, need at least 2", len(out.Options))}
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return nil, &ErrInvalidOutput{Content: raw, Err: fmt.Errorf("empty explanation")}
	}

	found := false
	for _, opt := range out.Options {
		if opt.Label == out.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return nil, &ErrInvalidOutput{
			Content: raw,
			Err:     fmt.Errorf("correct answer %q is not an option label", out.CorrectAnswer),
		}
	}

	subject := req.Subject
	if subject == "" {
		subject = out.Subject
	}
	topic := req.Topic
	if topic == "" {
		topic = out.Topic
	}

	return &GeneratedQuestion{
		Prompt:        out.Prompt,
		Options:       out.Options,
		CorrectAnswer: out.CorrectAnswer,
		Explanation:   out.Explanation,
		Subject:       subject,
		Topic:         topic,
	}, nil
}
