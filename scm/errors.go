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

import "fmt"

// SyntaxError is returned by the reader for malformed input.
type SyntaxError struct {
	Source string
	Line   int
	Col    int
	Msg    string

	incomplete bool // input ended inside an open combination
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.Source, e.Line, e.Col, e.Msg)
}

// Incomplete reports whether more input could complete the expression.
func (e *SyntaxError) Incomplete() bool { return e.incomplete }

type UnboundSymbolError struct {
	Name Symbol
}

func (e *UnboundSymbolError) Error() string {
	return "unbound symbol: " + string(e.Name)
}

// TypeError names the operation, the variant it needed and the one it got.
type TypeError struct {
	Op       string
	Expected Kind
	Actual   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Op, e.Expected, e.Actual)
}

// NotApplicableError is returned when a combination's head is not a procedure.
type NotApplicableError struct {
	Value Value
}

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("not applicable: %s is a %s, not a procedure", e.Value, e.Value.Kind())
}

// ArityError is returned when an operator gets the wrong number of operands.
// Max is Variadic for open-ended operators.
type ArityError struct {
	Op    string
	Min   int
	Max   int
	Given int
}

func (e *ArityError) Error() string {
	switch {
	case e.Max == Variadic:
		return fmt.Sprintf("%s expects at least %d operands, got %d", e.Op, e.Min, e.Given)
	case e.Min == e.Max:
		return fmt.Sprintf("%s expects %d operands, got %d", e.Op, e.Min, e.Given)
	default:
		return fmt.Sprintf("%s expects %d to %d operands, got %d", e.Op, e.Min, e.Max, e.Given)
	}
}

type RangeError struct {
	Op     string
	Index  int64
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0,%d)", e.Op, e.Index, e.Length)
}
