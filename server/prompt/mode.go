package prompt

import "strings"

// Mode is the content-generation intent driving template selection.
type Mode string

const (
	// ModeCaption writes a complete, ready-to-publish post caption
	ModeCaption Mode = "caption"
	// ModeHooks writes short titles and opening hooks
	ModeHooks Mode = "hooks"
	// ModeDesign writes a cover/banner design brief
	ModeDesign Mode = "design"

	DefaultMode = ModeCaption
)

// Modes lists every mode in marker priority order.
var Modes = []Mode{ModeCaption, ModeHooks, ModeDesign}

// synonyms maps accepted explicit mode values to modes.
var synonyms = map[string]Mode{
	"caption":  ModeCaption,
	"captions": ModeCaption,
	"hook":     ModeHooks,
	"hooks":    ModeHooks,
	"title":    ModeHooks,
	"titles":   ModeHooks,
	"design":   ModeDesign,
	"cover":    ModeDesign,
	"banner":   ModeDesign,
}

// markers are the fields whose presence implies a mode when no explicit
// mode is given. Checked in Modes order.
var markers = map[Mode][]Field{
	ModeCaption: {FieldIdea, FieldPlatform},
	ModeHooks:   {FieldTopic},
	ModeDesign:  {FieldMainTopic},
}

// ParseMode maps an explicit mode value to a Mode.
func ParseMode(s string) (Mode, bool) {
	m, ok := synonyms[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Resolve classifies a payload. An explicit mode field wins when it names a
// known mode; unrecognised explicit values fall back to DefaultMode rather
// than being rejected. Without an explicit mode, marker fields decide in
// priority order. Resolve never fails.
func Resolve(p Payload) Mode {
	if explicit, ok := p.Get(FieldMode); ok {
		if m, ok := ParseMode(explicit); ok {
			return m
		}
		return DefaultMode
	}

	for _, m := range Modes {
		for _, f := range markers[m] {
			if p.Has(f) {
				return m
			}
		}
	}
	return DefaultMode
}
