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
/*
 * A minimal s-expression interpreter: integers, symbols and cons cells,
 * a fixed table of special forms and registered built-in procedures.
 */
package scm

import (
	"fmt"

	"github.com/google/btree"
)

/*
 Special forms
*/

type form uint8

const (
	formNone form = iota
	formSet
	formGet
	formCar
	formCdr
	formCons
	formIf
	formAdd
	formQuote
)

// formDef describes one special form. Forms with a fn evaluate all their
// operands left to right and hand them to fn; the others see raw operands.
type formDef struct {
	name     Symbol
	min, max int
	fn       func(a ...Value) (Value, error)
}

var forms = [...]formDef{
	formSet:   {"set", 2, 2, nil},
	formGet:   {"get", 1, 1, nil},
	formCar:   {"car", 1, 1, primCar},
	formCdr:   {"cdr", 1, 1, primCdr},
	formCons:  {"cons", 2, 2, primCons},
	formIf:    {"if", 3, 3, nil},
	formAdd:   {"+", 0, Variadic, primAdd},
	formQuote: {"quote", 1, 1, nil},
}

var formsByName = func() map[Symbol]form {
	m := make(map[Symbol]form, len(forms))
	for f := formSet; int(f) < len(forms); f++ {
		m[forms[f].name] = f
	}
	return m
}()

// IsSpecialForm reports whether name is dispatched as a special form.
func IsSpecialForm(name Symbol) bool {
	return formsByName[name] != formNone
}

/*
 Eval / Apply
*/

func Eval(expression Value, en *Env) (Value, error) {
	switch e := expression.(type) {
	case Integer, Nil, *Array, *Builtin:
		return expression, nil
	case Symbol:
		return en.Lookup(e)
	case *Pair:
		if head, ok := e.head.(Symbol); ok {
			if f := formsByName[head]; f != formNone {
				return evalForm(f, e.tail, en)
			}
		}
		switch e.head.(type) {
		case Integer, Nil, *Array:
			// a list of data, not a call
			return evalData(e.head, e.tail, en)
		}
		return evalApply(e, en)
	case nil:
		return nil, fmt.Errorf("eval: nil expression")
	}
	return nil, fmt.Errorf("eval: unknown expression type %T", expression)
}

func operands(op string, tail Value) ([]Value, error) {
	items, rest, ok := ListToSlice(tail)
	if !ok {
		return nil, &TypeError{op, KindNil, rest.Kind()}
	}
	return items, nil
}

func evalForm(f form, tail Value, en *Env) (Value, error) {
	def := forms[f]
	list, err := operands(string(def.name), tail)
	if err != nil {
		return nil, err
	}
	if len(list) < def.min || (def.max != Variadic && len(list) > def.max) {
		return nil, &ArityError{string(def.name), def.min, def.max, len(list)}
	}
	if def.fn != nil {
		for i, x := range list {
			if list[i], err = Eval(x, en); err != nil {
				return nil, err
			}
		}
		return def.fn(list...)
	}
	switch f {
	case formSet:
		name, ok := list[0].(Symbol)
		if !ok {
			return nil, &TypeError{"set", KindSymbol, list[0].Kind()}
		}
		val, err := Eval(list[1], en)
		if err != nil {
			return nil, err
		}
		en.Bind(name, val)
		return val, nil
	case formGet:
		name, ok := list[0].(Symbol)
		if !ok {
			return nil, &TypeError{"get", KindSymbol, list[0].Kind()}
		}
		return en.Lookup(name)
	case formIf:
		test, err := Eval(list[0], en)
		if err != nil {
			return nil, err
		}
		if IsTrue(test) {
			return Eval(list[1], en)
		}
		return Eval(list[2], en)
	case formQuote:
		return list[0], nil
	}
	panic("unhandled special form " + string(def.name))
}

// IsTrue implements the condition test of if: only Integer 0 is false.
func IsTrue(v Value) bool {
	i, ok := v.(Integer)
	return !ok || i != 0
}

func primCar(a ...Value) (Value, error) {
	p, ok := a[0].(*Pair)
	if !ok {
		return nil, &TypeError{"car", KindCombination, a[0].Kind()}
	}
	return p.head, nil
}

func primCdr(a ...Value) (Value, error) {
	p, ok := a[0].(*Pair)
	if !ok {
		return nil, &TypeError{"cdr", KindCombination, a[0].Kind()}
	}
	return p.tail, nil
}

func primCons(a ...Value) (Value, error) {
	return Cons(a[0], a[1]), nil
}

// primAdd wraps around on int64 overflow.
func primAdd(a ...Value) (Value, error) {
	var sum Integer
	for _, v := range a {
		i, ok := v.(Integer)
		if !ok {
			return nil, &TypeError{"+", KindInteger, v.Kind()}
		}
		sum += i
	}
	return sum, nil
}

// evalData rebuilds a list of data from its evaluated head and the
// elements of tail, evaluated left to right.
func evalData(head, tail Value, en *Env) (Value, error) {
	items, err := operands("list", tail)
	if err != nil {
		return nil, err
	}
	for i, x := range items {
		if items[i], err = Eval(x, en); err != nil {
			return nil, err
		}
	}
	return Cons(head, List(items...)), nil
}

func evalApply(p *Pair, en *Env) (Value, error) {
	procedure, err := Eval(p.head, en)
	if err != nil {
		return nil, err
	}
	fn, ok := procedure.(*Builtin)
	if !ok {
		if _, nested := p.head.(*Pair); nested {
			// a list whose head is itself a list
			return evalData(procedure, p.tail, en)
		}
		return nil, &NotApplicableError{procedure}
	}
	args, err := operands(fn.Decl.Name, p.tail)
	if err != nil {
		return nil, err
	}
	for i, x := range args {
		if args[i], err = Eval(x, en); err != nil {
			return nil, err
		}
	}
	return fn.Call(args...)
}

// Apply calls a procedure value with already evaluated arguments.
func Apply(procedure Value, args ...Value) (Value, error) {
	fn, ok := procedure.(*Builtin)
	if !ok {
		return nil, &NotApplicableError{procedure}
	}
	return fn.Call(args...)
}

/*
 Environments
*/

type binding struct {
	name  Symbol
	value Value
}

func bindingLess(a, b binding) bool { return a.name < b.name }

// Env is one scope of bindings plus a link to the enclosing scope. Bindings
// are kept ordered so listings are stable.
type Env struct {
	vars  *btree.BTreeG[binding]
	Outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{btree.NewG(8, bindingLess), outer}
}

// FindRead returns the innermost scope binding s, or nil.
func (e *Env) FindRead(s Symbol) *Env {
	for en := e; en != nil; en = en.Outer {
		if _, ok := en.vars.Get(binding{name: s}); ok {
			return en
		}
	}
	return nil
}

func (e *Env) Lookup(s Symbol) (Value, error) {
	for en := e; en != nil; en = en.Outer {
		if b, ok := en.vars.Get(binding{name: s}); ok {
			return b.value, nil
		}
	}
	return nil, &UnboundSymbolError{s}
}

// Bind inserts or overwrites s in this scope only.
func (e *Env) Bind(s Symbol, v Value) {
	e.vars.ReplaceOrInsert(binding{s, v})
}

// Names lists the symbols bound in this scope in sorted order.
func (e *Env) Names() []Symbol {
	result := make([]Symbol, 0, e.vars.Len())
	e.vars.Ascend(func(b binding) bool {
		result = append(result, b.name)
		return true
	})
	return result
}

func (e *Env) Len() int { return e.vars.Len() }

/*
 Primitives
*/

// Globalenv holds the built-in procedures. Callers evaluate in child scopes
// of it so user bindings never overwrite a builtin.
var Globalenv *Env = NewEnv(nil)

func init() {
	DeclareTitle("Special Forms")
	Declare(Globalenv, &Declaration{
		"set", "evaluates the value and binds it to the variable in the current environment; returns the bound value",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"variable", "symbol", "variable to set (not evaluated)"},
			DeclarationParameter{"value", "any", "value to set the variable to"},
		}, "any", nil,
	})
	Declare(Globalenv, &Declaration{
		"get", "returns the value bound to the variable",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"variable", "symbol", "variable to read (not evaluated)"},
		}, "any", nil,
	})
	Declare(Globalenv, &Declaration{
		"car", "extracts the head of a combination",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "combination"},
		}, "any", primCar,
	})
	Declare(Globalenv, &Declaration{
		"cdr", "extracts the tail of a combination\nThe tail of a list is a list with all items except the head.",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"pair", "list", "combination"},
		}, "any", primCdr,
	})
	Declare(Globalenv, &Declaration{
		"cons", "constructs a combination from a head and a tail",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"head", "any", "new head element"},
			DeclarationParameter{"tail", "any", "tail, usually a list"},
		}, "list", primCons,
	})
	Declare(Globalenv, &Declaration{
		"if", "evaluates the condition and then exactly one branch; only the integer 0 counts as false",
		3, 3,
		[]DeclarationParameter{
			DeclarationParameter{"condition", "any", "condition to evaluate"},
			DeclarationParameter{"true-branch", "any", "code to evaluate if condition is true"},
			DeclarationParameter{"false-branch", "any", "code to evaluate if condition is 0"},
		}, "any", nil,
	})
	Declare(Globalenv, &Declaration{
		"+", "adds integers; (+) is 0 and (+ x) is x",
		0, Variadic,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "int", "values to add"},
		}, "int", primAdd,
	})
	Declare(Globalenv, &Declaration{
		"quote", "returns its operand without evaluating it",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "symbol or list to return as data"},
		}, "any", nil,
	})

	init_list()
}
