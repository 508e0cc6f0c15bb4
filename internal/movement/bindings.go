package movement

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyBindings maps each cardinal direction to the input tokens that press it.
// Tokens are platform key names such as "ArrowUp" or "w".
type KeyBindings map[Direction][]string

// DefaultBindings returns arrow keys plus WASD.
func DefaultBindings() KeyBindings {
	return KeyBindings{
		DirUp:    {"ArrowUp", "w", "W"},
		DirDown:  {"ArrowDown", "s", "S"},
		DirLeft:  {"ArrowLeft", "a", "A"},
		DirRight: {"ArrowRight", "d", "D"},
	}
}

// ParseBindings converts a config-style table keyed by direction name.
// Unknown names and diagonals are dropped; the result is normalised.
func ParseBindings(raw map[string][]string) KeyBindings {
	in := make(KeyBindings, len(raw))
	for name, tokens := range raw {
		dir, ok := ParseDirection(name)
		if !ok {
			continue
		}
		in[dir] = append(in[dir], tokens...)
	}
	return NormalizeBindings(in)
}

// NormalizeBindings returns a table where every cardinal has at least one
// token, single letters are bound in both cases, duplicates are removed and
// no token is shared by two directions (the earlier cardinal keeps it).
// Diagonal entries are ignored.
func NormalizeBindings(in KeyBindings) KeyBindings {
	defaults := DefaultBindings()
	out := make(KeyBindings, len(Cardinals))
	claimed := make(map[string]Direction)

	for _, dir := range Cardinals {
		tokens := normalizeTokens(in[dir], claimed)
		if len(tokens) == 0 {
			tokens = normalizeTokens(defaults[dir], claimed)
		}
		if len(tokens) == 0 {
			// Every default token was claimed by a custom binding elsewhere;
			// keep the defaults anyway so the direction stays reachable.
			tokens = append([]string(nil), defaults[dir]...)
		}
		for _, tok := range tokens {
			if _, taken := claimed[tok]; !taken {
				claimed[tok] = dir
			}
		}
		out[dir] = tokens
	}
	return out
}

func normalizeTokens(tokens []string, claimed map[string]Direction) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		if _, taken := claimed[tok]; taken {
			return
		}
		seen[tok] = true
		out = append(out, tok)
	}

	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		if r, size := utf8.DecodeRuneInString(tok); size == len(tok) && unicode.IsLetter(r) {
			add(tok)
			add(string(unicode.ToLower(r)))
			add(string(unicode.ToUpper(r)))
			continue
		}
		add(tok)
	}
	return out
}

// Index builds the token -> direction lookup.
func (kb KeyBindings) Index() map[string]Direction {
	index := make(map[string]Direction)
	for _, dir := range Cardinals {
		for _, tok := range kb[dir] {
			if _, taken := index[tok]; !taken {
				index[tok] = dir
			}
		}
	}
	return index
}

// Tokens lists every bound token in cardinal order.
func (kb KeyBindings) Tokens() []string {
	var tokens []string
	for _, dir := range Cardinals {
		tokens = append(tokens, kb[dir]...)
	}
	return tokens
}
