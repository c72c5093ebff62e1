package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/causaltrail-go/engine/errs"
)

// tokenKind identifies the lexical class of a token in the query grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokQMark
	tokPipe
	tokBang
	tokEq
	tokComma
	tokLParen
	tokRParen
	tokIdent
)

type token struct {
	kind tokenKind
	text string
}

// lex splits a query line into tokens. '?', '|', '!', '=', ',', '(', ')' are
// always single-character tokens; everything else accumulates into an
// identifier up to the next piece of punctuation or whitespace.
func lex(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '?':
			tokens = append(tokens, token{tokQMark, "?"})
			i++
		case r == '|':
			tokens = append(tokens, token{tokPipe, "|"})
			i++
		case r == '!':
			tokens = append(tokens, token{tokBang, "!"})
			i++
		case r == '=':
			tokens = append(tokens, token{tokEq, "="})
			i++
		case r == ',':
			tokens = append(tokens, token{tokComma, ","})
			i++
		case r == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case r == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && !strings.ContainsRune("?|!=,()", runes[i]) {
				i++
			}
			tokens = append(tokens, token{tokIdent, string(runes[start:i])})
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty query", errs.ErrParse)
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}
