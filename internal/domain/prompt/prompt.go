// Package prompt parses role-tagged prompt templates and renders them
// into chat messages.
//
// A template is plain text where each message starts with a role tag at
// the beginning of a line or of the text:
//
//	system: You segment transcripts.
//	user: Split this text: {text_to_segment}
//
// Placeholders in braces are substituted from the input record at render
// time.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"sigkit/internal/types"
)

var roleTagRE = regexp.MustCompile(`(?m)^\s*(system|user|assistant):\s*`)

var placeholderRE = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is an ordered list of role-tagged message bodies.
type Template struct {
	Messages []types.Message
}

// Parse splits a template text into role-tagged messages. Text before
// the first role tag is rejected; a template with no tags at all is
// treated as a single user message.
func Parse(text string) (Template, error) {
	locs := roleTagRE.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		body := strings.TrimSpace(text)
		if body == "" {
			return Template{}, fmt.Errorf("prompt: empty template")
		}
		return Template{Messages: []types.Message{{Role: "user", Content: body}}}, nil
	}
	if strings.TrimSpace(text[:locs[0][0]]) != "" {
		return Template{}, fmt.Errorf("prompt: text before first role tag: %q", strings.TrimSpace(text[:locs[0][0]]))
	}

	var msgs []types.Message
	for i, loc := range locs {
		role := text[loc[2]:loc[3]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		msgs = append(msgs, types.Message{
			Role:    role,
			Content: strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return Template{Messages: msgs}, nil
}

// Render substitutes {placeholder} occurrences from data in every
// message. A placeholder with no corresponding key is an error, so a
// typo in an instruction file fails loudly instead of prompting the
// model with a literal brace expression.
func (t Template) Render(data map[string]string) ([]types.Message, error) {
	out := make([]types.Message, len(t.Messages))
	for i, m := range t.Messages {
		var missing string
		content := placeholderRE.ReplaceAllStringFunc(m.Content, func(ph string) string {
			key := ph[1 : len(ph)-1]
			v, ok := data[key]
			if !ok {
				missing = key
				return ph
			}
			return v
		})
		if missing != "" {
			return nil, fmt.Errorf("prompt: no value for placeholder {%s}", missing)
		}
		out[i] = types.Message{Role: m.Role, Content: content}
	}
	return out, nil
}

// Placeholders lists the distinct placeholder names used by the template.
func (t Template) Placeholders() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range t.Messages {
		for _, sub := range placeholderRE.FindAllStringSubmatch(m.Content, -1) {
			if _, ok := seen[sub[1]]; ok {
				continue
			}
			seen[sub[1]] = struct{}{}
			out = append(out, sub[1])
		}
	}
	return out
}
