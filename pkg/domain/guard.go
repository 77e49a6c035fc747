package domain

import (
	"fmt"
	"strings"
)

// TokenKind classifies a guard token.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenAnd
	TokenOr
	TokenNot
	TokenSpace // significant space between two operands
)

// Token is one element of a canonical guard.
type Token struct {
	Kind TokenKind
	Text string
}

// Guard is a transition condition in canonical form.
// Two guards written with different spacing have identical token lists.
type Guard struct {
	Tokens []Token
}

// ParseGuard canonicalizes guard source text such as "HasForks() && !Stopping".
// Parentheses are dropped; any character outside identifiers, "&&", "||",
// "!", parentheses and whitespace is rejected.
func ParseGuard(text string) (Guard, error) {
	var raw []Token
	spaced := false
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			spaced = true
			i++
			continue
		case c == '(' || c == ')':
			i++
			continue
		case c == '&' || c == '|':
			if i+1 >= len(text) || text[i+1] != c {
				return Guard{}, fmt.Errorf("unexpected %q in guard %q", c, text)
			}
			kind := TokenAnd
			if c == '|' {
				kind = TokenOr
			}
			raw = append(raw, Token{Kind: kind, Text: text[i : i+2]})
			i += 2
		case c == '!':
			raw = appendSpace(raw, spaced)
			raw = append(raw, Token{Kind: TokenNot, Text: "!"})
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			raw = appendSpace(raw, spaced)
			raw = append(raw, Token{Kind: TokenIdent, Text: text[i:j]})
			i = j
		default:
			return Guard{}, fmt.Errorf("unexpected %q in guard %q", c, text)
		}
		spaced = false
	}
	if len(raw) == 0 {
		return Guard{}, fmt.Errorf("empty guard %q", text)
	}
	return Guard{Tokens: raw}, nil
}

// appendSpace records a separator only when it divides an operand from a
// following operand; spacing around && and || is not significant.
func appendSpace(tokens []Token, spaced bool) []Token {
	if !spaced || len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenIdent {
		return tokens
	}
	return append(tokens, Token{Kind: TokenSpace, Text: " "})
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// IsZero reports whether the guard is absent.
func (g Guard) IsZero() bool { return len(g.Tokens) == 0 }

// Key returns the canonical expression text used to deduplicate guards.
func (g Guard) Key() string {
	var sb strings.Builder
	for _, t := range g.Tokens {
		switch t.Kind {
		case TokenAnd, TokenOr:
			sb.WriteString(" " + t.Text + " ")
		default:
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// Name returns the function identifier the guard maps to.
func (g Guard) Name() string {
	var sb strings.Builder
	for _, t := range g.Tokens {
		switch t.Kind {
		case TokenAnd:
			sb.WriteString("_AND_")
		case TokenOr:
			sb.WriteString("_OR_")
		case TokenNot:
			sb.WriteString("NOT_")
		case TokenSpace:
			sb.WriteString("_")
		default:
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

func (g Guard) String() string { return g.Key() }
