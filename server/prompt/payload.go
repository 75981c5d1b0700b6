// Package prompt turns a caller payload into the (system, user) prompt pair
// sent to the completion provider. It owns the field alias table, the mode
// resolver and the per-mode templates.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field is a logical payload field, independent of the spelling the caller used.
type Field string

const (
	FieldMode        Field = "mode"
	FieldIdea        Field = "idea"
	FieldPlatform    Field = "platform"
	FieldTone        Field = "tone"
	FieldFormality   Field = "formality"
	FieldGoal        Field = "goal"
	FieldLength      Field = "length"
	FieldAudience    Field = "audience"
	FieldTopic       Field = "topic"
	FieldStyle       Field = "style"
	FieldMainTopic   Field = "mainTopic"
	FieldDetails     Field = "details"
	FieldVisualStyle Field = "visualStyle"
)

// aliases lists, per logical field, the payload keys accepted for it in
// lookup order. The first present non-empty key wins.
var aliases = map[Field][]string{
	FieldMode:        {"section", "Section", "mode", "Mode"},
	FieldIdea:        {"idea", "Idea", "text", "Text", "description", "Description"},
	FieldPlatform:    {"platform", "Platform"},
	FieldTone:        {"tone", "Tone"},
	FieldFormality:   {"formality", "Formality"},
	FieldGoal:        {"goal", "Goal"},
	FieldLength:      {"length", "Length"},
	FieldAudience:    {"audience", "Audience"},
	FieldTopic:       {"topic", "Topic", "pain", "Pain"},
	FieldStyle:       {"style", "Style", "hookStyle", "HookStyle"},
	FieldMainTopic:   {"mainTopic", "MainTopic", "main_topic"},
	FieldDetails:     {"details", "Details"},
	FieldVisualStyle: {"visualStyle", "VisualStyle", "visual_style"},
}

// Aliases returns the accepted keys of a logical field in lookup order.
func Aliases(f Field) []string {
	keys := aliases[f]
	if keys == nil {
		return []string{string(f)}
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Payload is the flat string map supplied by a caller.
type Payload map[string]string

// Get returns the value of a logical field, trying its aliases in order.
// Values are trimmed; whitespace-only values count as absent.
func (p Payload) Get(f Field) (string, bool) {
	for _, key := range Aliases(f) {
		if v := strings.TrimSpace(p[key]); v != "" {
			return v, true
		}
	}
	return "", false
}

// Has reports whether a logical field is present with a non-empty value.
func (p Payload) Has(f Field) bool {
	_, ok := p.Get(f)
	return ok
}

// Value returns the field value or "" when absent.
func (p Payload) Value(f Field) string {
	v, _ := p.Get(f)
	return v
}

// PayloadFromJSON decodes a JSON object into a Payload. Scalars are
// stringified, null members are dropped, and nested arrays or objects are
// rejected since no template can use them.
func PayloadFromJSON(data []byte) (Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("body must be a JSON object")
	}

	p := make(Payload, len(raw))
	for key, msg := range raw {
		var v interface{}
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			p[key] = tv
		case bool:
			p[key] = strconv.FormatBool(tv)
		case float64:
			p[key] = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("field %q must be a string, number or boolean", key)
		}
	}
	return p, nil
}
