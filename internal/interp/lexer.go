package interp

import (
	"fmt"
	"strings"
)

const (
	MaxTokens       = 500
	MaxLiteralChars = 30
	MaxVariables    = 20
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokAssign
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokOp
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of program"
	}
	return fmt.Sprintf("%q", t.text)
}

var keywords = map[string]bool{
	"print": true,
	"input": true,
	"while": true,
	"if":    true,
	"else":  true,
	"true":  true,
	"false": true,
	"not":   true,
	"and":   true,
	"or":    true,
}

func tokenize(src string) ([]token, error) {
	var toks []token
	line := 1
	push := func(k tokenKind, text string) error {
		if len(toks) >= MaxTokens {
			return fmt.Errorf("line %d: program exceeds %d tokens", line, MaxTokens)
		}
		toks = append(toks, token{kind: k, text: text, line: line})
		return nil
	}
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		}

		var err error
		switch {
		case isLetter(c):
			j := i
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			word := src[i:j]
			if len(word) > MaxLiteralChars {
				return nil, fmt.Errorf("line %d: name %q too long", line, word)
			}
			kind := tokIdent
			if keywords[word] {
				kind = tokKeyword
			}
			err = push(kind, word)
			i = j
		case isDigit(c):
			j := i
			kind := tokInt
			for j < len(src) && (isDigit(src[j]) || src[j] == '.') {
				if src[j] == '.' {
					if kind == tokFloat {
						return nil, fmt.Errorf("line %d: malformed number", line)
					}
					kind = tokFloat
				}
				j++
			}
			if j-i > MaxLiteralChars {
				return nil, fmt.Errorf("line %d: number too long", line)
			}
			err = push(kind, src[i:j])
			i = j
		case c == '"':
			j := strings.IndexByte(src[i+1:], '"')
			if j < 0 {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			lit := src[i+1 : i+1+j]
			if len(lit) > MaxLiteralChars {
				return nil, fmt.Errorf("line %d: string literal longer than %d", line, MaxLiteralChars)
			}
			if strings.Contains(lit, "\n") {
				return nil, fmt.Errorf("line %d: newline in string", line)
			}
			err = push(tokString, lit)
			i += j + 2
		case c == ':' && i+1 < len(src) && src[i+1] == '=':
			err = push(tokAssign, ":=")
			i += 2
		case c == '(':
			err = push(tokLParen, "(")
			i++
		case c == ')':
			err = push(tokRParen, ")")
			i++
		case c == '{':
			err = push(tokLBrace, "{")
			i++
		case c == '}':
			err = push(tokRBrace, "}")
			i++
		case c == '<' || c == '>' || c == '=' || c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				err = push(tokOp, src[i:i+2])
				i += 2
			} else if c == '<' || c == '>' {
				err = push(tokOp, src[i:i+1])
				i++
			} else {
				return nil, fmt.Errorf("line %d: unexpected %q", line, c)
			}
		case strings.IndexByte("+-*/%", c) >= 0:
			err = push(tokOp, src[i:i+1])
			i++
		default:
			return nil, fmt.Errorf("line %d: unexpected %q", line, c)
		}
		if err != nil {
			return nil, err
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
