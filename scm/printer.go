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
	"strconv"
	"strings"
)

/*
 Result format

 Atoms print as "Variant (payload)", a combination as
 "Combination (head ,[tail])" where tail lists the remaining elements
 separated by ", " or, for an improper tail, shows that tail value.
 Existing transcripts depend on this exact text.
*/

func (i Integer) String() string {
	return "Integer (" + strconv.FormatInt(int64(i), 10) + ")"
}

func (s Symbol) String() string {
	return "Symbol (" + string(s) + ")"
}

func (Nil) String() string {
	return "Nil"
}

func (p *Pair) String() string {
	var b strings.Builder
	writeValue(&b, p)
	return b.String()
}

func (a *Array) String() string {
	var b strings.Builder
	writeValue(&b, a)
	return b.String()
}

func (f *Builtin) String() string {
	return "Procedure (" + f.Decl.Name + ")"
}

// Print renders v in the result format; a Go nil prints as Nil.
func Print(v Value) string {
	if v == nil {
		return Nil{}.String()
	}
	return v.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case *Pair:
		b.WriteString("Combination (")
		writeValue(b, x.head)
		b.WriteString(" ,[")
		if items, _, ok := ListToSlice(x.tail); ok {
			writeJoined(b, items)
		} else {
			writeValue(b, x.tail)
		}
		b.WriteString("])")
	case *Array:
		b.WriteString("Array ([")
		writeJoined(b, x.items)
		b.WriteString("])")
	default:
		b.WriteString(Print(v))
	}
}

func writeJoined(b *strings.Builder, items []Value) {
	for i, item := range items {
		if i != 0 {
			b.WriteString(", ")
		}
		writeValue(b, item)
	}
}

// Serialize renders v as s-expression source text. Proper lists of atoms
// read back to an equal value; arrays and improper lists use #( ) and
// dotted notation which the reader does not accept.
func Serialize(v Value) string {
	var b strings.Builder
	serializeEx(&b, v)
	return b.String()
}

func serializeEx(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil, Nil:
		b.WriteString("()")
	case Integer:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case Symbol:
		b.WriteString(string(x))
	case *Pair:
		b.WriteByte('(')
		var cur Value = x
		first := true
		for {
			p, ok := cur.(*Pair)
			if !ok {
				break
			}
			if !first {
				b.WriteByte(' ')
			}
			first = false
			serializeEx(b, p.head)
			cur = p.tail
		}
		if !IsNil(cur) {
			b.WriteString(" . ")
			serializeEx(b, cur)
		}
		b.WriteByte(')')
	case *Array:
		b.WriteString("#(")
		for i, item := range x.items {
			if i != 0 {
				b.WriteByte(' ')
			}
			serializeEx(b, item)
		}
		b.WriteByte(')')
	case *Builtin:
		b.WriteString(x.Decl.Name)
	}
}
