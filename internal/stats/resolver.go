// Package stats resolves combat-relevant numbers out of a card's free-form
// label/value stat bag. Authors label stats in mixed languages ("HP",
// "ZDRAVÍ", "Útok"), so lookups go through a synonym table instead of exact
// field names. The table is injectable so no component hardcodes label
// strings inline.
package stats

import (
	"strconv"
	"strings"

	"github.com/starfall-game/starfall-server/internal/game"
)

// Fallback values used when a card carries no usable entry for a stat.
const (
	DefaultHP  = 50
	DefaultATK = 10
	DefaultDEF = 0
)

// Resolver matches stat labels against synonym sets. A label matches a
// synonym when, case-insensitively, either contains the other.
type Resolver struct {
	synonyms map[string][]string
}

// DefaultSynonyms covers the labels the shipped card set uses, English and
// Czech aliases included.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"HP":    {"HP", "ZDRAVÍ", "ZDRAVI", "HEALTH"},
		"ATK":   {"ATK", "ÚTOK", "UTOK", "ATTACK"},
		"DEF":   {"DEF", "OBRANA", "DEFENSE"},
		"DMG":   {"DMG", "POŠKOZENÍ", "POSKOZENI", "DAMAGE"},
		"ARMOR": {"ARMOR", "BRNĚNÍ", "BRNENI", "ŠTÍT", "STIT", "SHIELD"},
		"GOLD":  {"GOLD", "ZLATO", "KREDITY", "CREDITS"},
		"FUEL":  {"FUEL", "PALIVO"},
		"OXY":   {"OXY", "KYSLÍK", "KYSLIK", "OXYGEN"},
	}
}

// NewResolver builds a resolver over the given synonym table. Passing nil
// uses DefaultSynonyms.
func NewResolver(synonyms map[string][]string) *Resolver {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Resolver{synonyms: synonyms}
}

// matches reports whether a card label matches one synonym, ignoring case.
func matches(label, synonym string) bool {
	l := strings.ToUpper(strings.TrimSpace(label))
	s := strings.ToUpper(synonym)
	if l == "" {
		return false
	}
	return l == s || strings.Contains(l, s) || strings.Contains(s, l)
}

// Lookup returns the raw value of the first stat entry matching the named
// synonym set. The canonical name itself is always tried, so unknown names
// degrade to exact/substring matching on the name.
func (r *Resolver) Lookup(entries []game.StatEntry, name string) (string, bool) {
	syns, ok := r.synonyms[name]
	if !ok {
		syns = []string{name}
	}
	for _, e := range entries {
		for _, s := range syns {
			if matches(e.Label, s) {
				return e.Value, true
			}
		}
	}
	return "", false
}

// Int resolves a stat to an integer, falling back when the entry is absent
// or not numeric. Sign prefixes ("+10", "-5") parse as expected.
func (r *Resolver) Int(entries []game.StatEntry, name string, fallback int) int {
	raw, ok := r.Lookup(entries, name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(raw, "+")))
	if err != nil {
		return fallback
	}
	return n
}

// HP, ATK and DEF wrap Int with the documented fallbacks.
func (r *Resolver) HP(entries []game.StatEntry) int  { return r.Int(entries, "HP", DefaultHP) }
func (r *Resolver) ATK(entries []game.StatEntry) int { return r.Int(entries, "ATK", DefaultATK) }
func (r *Resolver) DEF(entries []game.StatEntry) int { return r.Int(entries, "DEF", DefaultDEF) }

// Canonical maps a free-form label to its canonical stat name ("HP",
// "GOLD", ...). Reports false for labels outside the synonym table.
func (r *Resolver) Canonical(label string) (string, bool) {
	for name, syns := range r.synonyms {
		for _, s := range syns {
			if matches(label, s) {
				return name, true
			}
		}
	}
	return "", false
}

// Set writes a stat by label, removing any existing entry with the exact
// same label first. Labels are unique within a card's bag; edits are
// last-write-wins.
func Set(entries []game.StatEntry, label, value string) []game.StatEntry {
	out := make([]game.StatEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Label != label {
			out = append(out, e)
		}
	}
	return append(out, game.StatEntry{Label: label, Value: value})
}
