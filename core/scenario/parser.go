// Package scenario parses scenario codes into resolved option settings.
//
// A scenario code is a dash-separated sequence of axis tokens such as
// "Ca-Ib-Ea": each token's first character selects an axis, the remainder
// selects a value of that axis. Tokens whose first character is not a
// registered axis letter ("730seg", "buildYearAgg") are inert modifiers
// carried for other consumers and excluded from resolution.
package scenario

import (
	"strings"

	"h2sweep/core/registry"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// Delimiter separates tokens in a scenario code
const Delimiter = "-"

// Token is one dash-separated element of a scenario code
type Token struct {
	// Raw is the token text as it appears in the code
	Raw string

	// Letter is the axis letter (first character) for axis tokens
	Letter types.AxisLetter

	// Value is the axis value (remaining characters) for axis tokens
	Value string

	// Modifier marks tokens whose letter is not a registered axis
	Modifier bool
}

// ResolvedOption is one (axis, value, option, setting) produced by
// resolving an axis token against the registry
type ResolvedOption struct {
	Axis      types.AxisLetter
	AxisValue string
	Option    types.OptionName
	Value     interface{}
}

// Split breaks a scenario code into raw tokens, dropping empty ones
func Split(code string) []string {
	parts := strings.Split(code, Delimiter)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Tokens classifies every token of a code against the registry. Axis
// letters are single-byte by construction (the definition scanner
// rejects longer labels), so the first byte of each token selects the
// axis; tokens whose first byte is not a registered letter become
// modifiers. No validation of axis values happens here.
func Tokens(code string, reg *registry.Registry) []Token {
	raw := Split(code)
	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		letter := types.AxisLetter(r[:1])
		if !reg.Has(letter) {
			tokens = append(tokens, Token{Raw: r, Modifier: true})
			continue
		}
		tokens = append(tokens, Token{Raw: r, Letter: letter, Value: r[1:]})
	}
	return tokens
}

// Parse resolves a scenario code into an ordered option sequence.
//
// The output preserves the left-to-right token order of the code; that
// order is the documented conflict rule when two options target the same
// config path (the later token wins). A registered letter with an
// undefined value is fatal; the same letter appearing twice is fatal.
// Options within one token are emitted in sorted name order, which is
// safe because option names within a set are unique.
func Parse(code string, reg *registry.Registry) ([]ResolvedOption, error) {
	seen := make(map[types.AxisLetter]bool)
	var resolved []ResolvedOption

	for _, token := range Tokens(code, reg) {
		if token.Modifier {
			continue
		}

		if seen[token.Letter] {
			return nil, errors.DuplicateAxis(string(token.Letter), code)
		}
		seen[token.Letter] = true

		axis, _ := reg.Axis(token.Letter)
		options, ok := axis.Values[token.Value]
		if !ok {
			return nil, errors.UnknownAxisValue(string(token.Letter), token.Value)
		}

		for _, name := range options.Names() {
			resolved = append(resolved, ResolvedOption{
				Axis:      token.Letter,
				AxisValue: token.Value,
				Option:    name,
				Value:     options[name],
			})
		}
	}

	return resolved, nil
}

// Canonical re-serializes the axis tokens of a code, dropping modifiers.
// Resolving the canonical code yields the identical option set as the
// original (resolution idempotence).
func Canonical(code string, reg *registry.Registry) (string, error) {
	if _, err := Parse(code, reg); err != nil {
		return "", err
	}

	var parts []string
	for _, token := range Tokens(code, reg) {
		if !token.Modifier {
			parts = append(parts, token.Raw)
		}
	}
	return strings.Join(parts, Delimiter), nil
}
