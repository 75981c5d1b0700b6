package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/teilomillet/tavita/config"
)

// Pair is the rendered (system, user) message pair for one request.
type Pair struct {
	System string
	User   string
}

// Builder renders prompts from a fixed catalog of mode specs. Templates are
// parsed once at construction; Build is safe for concurrent use.
type Builder struct {
	specs     map[Mode]ModeSpec
	templates map[Mode]*template.Template
}

// NewBuilder returns a Builder over the built-in catalog with the given
// per-mode overrides applied. Every template is parsed and rendered against
// an empty payload so broken overrides fail at startup rather than on the
// first request.
func NewBuilder(overrides map[string]config.ModeConfig) (*Builder, error) {
	specs := DefaultSpecs()
	for name, o := range overrides {
		m, ok := ParseMode(name)
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", name)
		}
		spec := specs[m]
		if s := strings.TrimSpace(o.SystemPrompt); s != "" {
			spec.SystemPrompt = s
		}
		if o.UserTemplate != "" {
			spec.UserTemplate = o.UserTemplate
		}
		if o.Temperature != nil {
			spec.Temperature = *o.Temperature
		}
		if o.MaxTokens > 0 {
			spec.MaxTokens = o.MaxTokens
		}
		specs[m] = spec
	}

	b := &Builder{
		specs:     specs,
		templates: make(map[Mode]*template.Template, len(specs)),
	}
	for m, spec := range specs {
		tmpl, err := template.New(string(m)).Option("missingkey=error").Parse(spec.UserTemplate)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", m, err)
		}
		b.templates[m] = tmpl
		if _, err := b.Build(m, Payload{}); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Spec returns the spec of a mode. Unknown modes get the default mode's spec.
func (b *Builder) Spec(m Mode) ModeSpec {
	if spec, ok := b.specs[m]; ok {
		return spec
	}
	return b.specs[DefaultMode]
}

// Build renders the prompt pair for a mode. Every known field is available
// to the template by its logical name; absent fields take the mode's
// placeholder, or the empty string when the mode defines none.
func (b *Builder) Build(m Mode, p Payload) (Pair, error) {
	if !m.Valid() {
		m = DefaultMode
	}
	spec := b.specs[m]

	data := make(map[string]string, len(aliases))
	for f := range aliases {
		v, ok := p.Get(f)
		if !ok {
			v = spec.Defaults[f]
		}
		data[string(f)] = v
	}

	var buf bytes.Buffer
	if err := b.templates[m].Execute(&buf, data); err != nil {
		return Pair{}, fmt.Errorf("render %s prompt: %w", m, err)
	}
	user := strings.TrimSpace(buf.String())
	if user == "" {
		return Pair{}, fmt.Errorf("render %s prompt: template produced no text", m)
	}

	return Pair{System: spec.SystemPrompt, User: user}, nil
}
