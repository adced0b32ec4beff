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

// Kind enumerates the closed set of value variants.
type Kind uint8

const (
	KindNil Kind = iota
	KindInteger
	KindSymbol
	KindCombination
	KindArray
	KindProcedure
)

var kindNames = [...]string{
	KindNil:         "Nil",
	KindInteger:     "Integer",
	KindSymbol:      "Symbol",
	KindCombination: "Combination",
	KindArray:       "Array",
	KindProcedure:   "Procedure",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Value is an s-expression. The set of implementations is closed; String
// renders the printer format described in printer.go.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Integer is a whole-number literal.
type Integer int64

// Symbol is an identifier; it is syntax in head position and a bindable name
// everywhere else.
type Symbol string

// Nil is the empty list.
type Nil struct{}

// Pair is a cons cell. It exclusively owns head and tail and never changes
// after construction.
type Pair struct {
	head, tail Value
}

// Array is an ordered sequence whose slots can be overwritten in place.
type Array struct {
	items []Value
}

// Builtin is a procedure value backed by a registered Declaration.
type Builtin struct {
	Decl *Declaration
}

func (Integer) Kind() Kind  { return KindInteger }
func (Symbol) Kind() Kind   { return KindSymbol }
func (Nil) Kind() Kind      { return KindNil }
func (*Pair) Kind() Kind    { return KindCombination }
func (*Array) Kind() Kind   { return KindArray }
func (*Builtin) Kind() Kind { return KindProcedure }

func (Integer) isValue()  {}
func (Symbol) isValue()   {}
func (Nil) isValue()      {}
func (*Pair) isValue()    {}
func (*Array) isValue()   {}
func (*Builtin) isValue() {}

//
// Constructors
//

func NewInt(i int64) Value { return Integer(i) }

func NewSymbol(name string) Value { return Symbol(name) }

func NewNil() Value { return Nil{} }

func Cons(head, tail Value) *Pair {
	return &Pair{head, tail}
}

// NewArray takes ownership of items.
func NewArray(items []Value) *Array {
	return &Array{items}
}

// List builds a Nil-terminated chain of pairs from right to left.
func List(a ...Value) Value {
	var result Value = Nil{}
	for i := len(a) - 1; i >= 0; i-- {
		result = &Pair{a[i], result}
	}
	return result
}

//
// Accessors
//

func (p *Pair) Car() Value { return p.head }
func (p *Pair) Cdr() Value { return p.tail }

func (a *Array) Len() int { return len(a.items) }

func (a *Array) Get(i int) Value { return a.items[i] }

func (a *Array) Set(i int, v Value) { a.items[i] = v }

// Items returns a copy of the slots.
func (a *Array) Items() []Value {
	return append([]Value(nil), a.items...)
}

func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

// ListToSlice flattens a chain of pairs. ok is false for an improper list;
// rest then holds the non-Nil terminator.
func ListToSlice(v Value) (items []Value, rest Value, ok bool) {
	for {
		switch p := v.(type) {
		case *Pair:
			items = append(items, p.head)
			v = p.tail
		case Nil:
			return items, v, true
		default:
			return items, v, false
		}
	}
}

// Equal compares structurally. Builtins are equal when they share a declaration.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case Nil:
		return IsNil(b)
	case *Pair:
		y, ok := b.(*Pair)
		if !ok {
			return false
		}
		for {
			if !Equal(x.head, y.head) {
				return false
			}
			xt, xok := x.tail.(*Pair)
			yt, yok := y.tail.(*Pair)
			if !xok || !yok {
				return Equal(x.tail, y.tail)
			}
			x, y = xt, yt
		}
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case *Builtin:
		y, ok := b.(*Builtin)
		return ok && x.Decl == y.Decl
	}
	return false
}
