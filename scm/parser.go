/*
Copyright (C) 2026  b33j0r

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package scm

import (
	"errors"
	"strconv"
	"unicode"
)

type token struct {
	text string
	line int
	col  int
}

type reader struct {
	source string
	tokens []token
	pos    int
}

// Read parses exactly one expression from s. source names the input in
// error messages.
func Read(source, s string) (Value, error) {
	r := &reader{source: source, tokens: tokenize(s)}
	if len(r.tokens) == 0 {
		return nil, &SyntaxError{Source: source, Line: 1, Col: 1, Msg: "empty input"}
	}
	expression, err := r.readFrom()
	if err != nil {
		return nil, err
	}
	if r.pos < len(r.tokens) {
		return nil, r.unexpected(r.tokens[r.pos])
	}
	return expression, nil
}

// ReadAll parses every top-level expression in s.
func ReadAll(source, s string) ([]Value, error) {
	r := &reader{source: source, tokens: tokenize(s)}
	var result []Value
	for r.pos < len(r.tokens) {
		expression, err := r.readFrom()
		if err != nil {
			return nil, err
		}
		result = append(result, expression)
	}
	return result, nil
}

func (r *reader) unexpected(t token) error {
	msg := "unexpected trailing input " + strconv.Quote(t.text)
	if t.text == ")" {
		msg = "unexpected )"
	}
	return &SyntaxError{Source: r.source, Line: t.line, Col: t.col, Msg: msg}
}

// Syntactic Analysis
func (r *reader) readFrom() (Value, error) {
	if r.pos >= len(r.tokens) {
		line, col := 1, 1
		if len(r.tokens) > 0 {
			last := r.tokens[len(r.tokens)-1]
			line, col = last.line, last.col
		}
		return nil, &SyntaxError{Source: r.source, Line: line, Col: col, Msg: "unexpected end of input", incomplete: true}
	}
	// pop first element from tokens
	t := r.tokens[r.pos]
	r.pos++
	switch t.text {
	case "(":
		var items []Value
		for {
			if r.pos >= len(r.tokens) {
				return nil, &SyntaxError{Source: r.source, Line: t.line, Col: t.col, Msg: "expecting matching )", incomplete: true}
			}
			if r.tokens[r.pos].text == ")" {
				r.pos++
				return List(items...), nil
			}
			item, err := r.readFrom()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	case ")":
		return nil, r.unexpected(t)
	}
	return r.atom(t)
}

// atom classifies a token: anything strconv accepts as a base-10 int64 is
// an Integer, the rest are symbols.
func (r *reader) atom(t token) (Value, error) {
	i, err := strconv.ParseInt(t.text, 10, 64)
	if err == nil {
		return Integer(i), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, &SyntaxError{Source: r.source, Line: t.line, Col: t.col, Msg: "integer out of range: " + t.text}
	}
	return Symbol(t.text), nil
}

// Lexical Analysis
func tokenize(s string) []token {
	/* tokenizer state machine:
		0 = expecting next item
		1 = inside atom
		2 = inside comment (; until end of line)

	tokens are either atoms, ( or )
	*/
	line := 1
	col := 0

	state := 0
	startToken, startLine, startCol := 0, 0, 0
	result := make([]token, 0)
	for i, ch := range s {
		// line counting
		if ch == '\n' {
			line++
			col = 0
		} else {
			col++
		}

		if state == 2 {
			if ch == '\n' {
				state = 0
			}
		} else if state == 1 && ch != '(' && ch != ')' && !unicode.IsSpace(ch) {
			// another character added to the atom; ; inside an atom is not a comment
		} else {
			if state == 1 {
				// finish atom
				result = append(result, token{s[startToken:i], startLine, startCol})
				state = 0
			}
			// now detect what to parse next
			if ch == '(' || ch == ')' {
				result = append(result, token{string(ch), line, col})
			} else if ch == ';' {
				state = 2
			} else if unicode.IsSpace(ch) {
				// white space
			} else {
				state = 1
				startToken, startLine, startCol = i, line, col
			}
		}
	}
	// in the end: finish an unfinished atom
	if state == 1 {
		result = append(result, token{s[startToken:], startLine, startCol})
	}
	return result
}
