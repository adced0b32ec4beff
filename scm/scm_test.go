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
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalIn(t *testing.T, en *Env, code string) (Value, error) {
	t.Helper()
	return Eval(mustRead(t, code), en)
}

func mustEval(t *testing.T, en *Env, code string) Value {
	t.Helper()
	v, err := evalIn(t, en, code)
	require.NoError(t, err, "eval %s", code)
	return v
}

func TestEval_SelfEvaluating(t *testing.T) {
	en := NewEnv(Globalenv)
	for _, n := range []int64{0, 5, -12, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, Integer(n), mustEval(t, en, strconv.FormatInt(n, 10)))
	}
	assert.Equal(t, Nil{}, mustEval(t, en, "()"))

	arr := NewArray([]Value{Integer(1)})
	v, err := Eval(arr, en)
	require.NoError(t, err)
	assert.Same(t, arr, v)

	_, err = Eval(nil, en)
	assert.Error(t, err)
}

func TestEval_SetGet(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.Equal(t, Integer(5), mustEval(t, en, "(set x 5)"))
	assert.Equal(t, Integer(5), mustEval(t, en, "(get x)"))
	assert.Equal(t, Integer(5), mustEval(t, en, "x"))

	// set overwrites and evaluates its value operand
	assert.Equal(t, Integer(8), mustEval(t, en, "(set x (+ x 3))"))
	assert.Equal(t, Integer(8), mustEval(t, en, "x"))

	_, err := evalIn(t, en, "(get y)")
	var unbound *UnboundSymbolError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, Symbol("y"), unbound.Name)
	assert.Equal(t, "unbound symbol: y", err.Error())

	_, err = evalIn(t, en, "y")
	assert.ErrorAs(t, err, &unbound)

	_, err = evalIn(t, en, "(set 5 1)")
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, &TypeError{"set", KindSymbol, KindInteger}, typeErr)

	_, err = evalIn(t, en, "(get (x))")
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, KindCombination, typeErr.Actual)
}

func TestEval_CarCdrCons(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.Equal(t, Integer(1), mustEval(t, en, "(car (1 2))"))
	assert.True(t, Equal(List(Integer(2), Integer(3)), mustEval(t, en, "(cdr (1 2 3))")))
	assert.Equal(t, Nil{}, mustEval(t, en, "(cdr (1))"))
	assert.True(t, Equal(List(Integer(1)), mustEval(t, en, "(cons 1 ())")))
	assert.True(t, Equal(Cons(Integer(1), Integer(2)), mustEval(t, en, "(cons 1 2)")))
	assert.True(t, Equal(
		List(Integer(0), Integer(1), Integer(2)),
		mustEval(t, en, "(cons 0 (1 2))"),
	))
	assert.Equal(t, Integer(2), mustEval(t, en, "(car (cdr (1 2 3)))"))

	_, err := evalIn(t, en, "(car 5)")
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, &TypeError{"car", KindCombination, KindInteger}, typeErr)
	assert.Equal(t, "car: expected Combination, got Integer", err.Error())

	_, err = evalIn(t, en, "(cdr ())")
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, &TypeError{"cdr", KindCombination, KindNil}, typeErr)
}

func TestEval_DataLists(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.True(t, Equal(List(Integer(1), Integer(2), Integer(3)), mustEval(t, en, "(1 2 3)")))
	// elements of a data list are evaluated
	assert.True(t, Equal(List(Integer(1), Integer(2)), mustEval(t, en, "(1 (+ 1 1))")))
	assert.True(t, Equal(List(Nil{}, Integer(4)), mustEval(t, en, "(() (+ 2 2))")))
}

func TestEval_NestedDataLists(t *testing.T) {
	en := NewEnv(Globalenv)
	// integer-only lists evaluate to themselves at any nesting depth
	for _, code := range []string{"((1 2) 3)", "(((1)) 2)", "((1) (2 (3)) ())", "((()) 1)"} {
		v := mustRead(t, code)
		assert.True(t, Equal(v, mustEval(t, en, code)), "%s evaluated to %s", code, Serialize(mustEval(t, en, code)))
	}
	assert.True(t, Equal(List(Integer(1), Integer(2)), mustEval(t, en, "(car ((1 2) 3))")))
	assert.True(t, Equal(List(Integer(3)), mustEval(t, en, "(cdr ((1 2) 3))")))

	// the head is evaluated once and kept as a datum
	assert.True(t, Equal(List(Integer(3), Integer(4)), mustEval(t, en, "((+ 1 2) 4)")))
	assert.True(t, Equal(List(Integer(1), Integer(2)), mustEval(t, en, "((car (1 5)) (+ 1 1))")))

	// a nested head that yields a procedure is still a call
	assert.Equal(t, Integer(1), mustEval(t, en, "((get car) (1 2))"))

	_, err := evalIn(t, en, "((1 2) (car 5))")
	assert.ErrorAs(t, err, new(*TypeError))
}

func TestEval_If(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.Equal(t, Integer(1), mustEval(t, en, "(if 1 1 2)"))
	assert.Equal(t, Integer(2), mustEval(t, en, "(if 0 1 2)"))
	assert.Equal(t, Integer(1), mustEval(t, en, "(if -3 1 2)"))
	assert.Equal(t, Integer(1), mustEval(t, en, "(if () 1 2)"), "only integer 0 is false")
	assert.Equal(t, Integer(2), mustEval(t, en, "(if (+ 1 -1) 1 2)"))

	// the branch not taken is never evaluated
	assert.Equal(t, Integer(1), mustEval(t, en, "(if 1 1 (car 5))"))
	assert.Equal(t, Integer(2), mustEval(t, en, "(if 0 (car 5) 2)"))
	mustEval(t, en, "(if 1 (set taken 1) (set skipped 1))")
	_, err := en.Lookup("skipped")
	assert.Error(t, err)
	assert.Equal(t, Integer(1), mustEval(t, en, "taken"))

	_, err = evalIn(t, en, "(if (car 5) 1 2)")
	assert.ErrorAs(t, err, new(*TypeError))
}

func TestEval_Add(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.Equal(t, Integer(6), mustEval(t, en, "(+ 1 2 3)"))
	assert.Equal(t, Integer(0), mustEval(t, en, "(+)"))
	assert.Equal(t, Integer(7), mustEval(t, en, "(+ 7)"))
	assert.Equal(t, Integer(-1), mustEval(t, en, "(+ 1 -2)"))
	assert.Equal(t, Integer(10), mustEval(t, en, "(+ (+ 1 2) (+ 3 4))"))
	assert.Equal(t, Integer(math.MinInt64), mustEval(t, en, "(+ 9223372036854775807 1)"), "wraps around")

	en.Bind("x", Symbol("hello"))
	_, err := evalIn(t, en, "(+ 1 x)")
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, &TypeError{"+", KindInteger, KindSymbol}, typeErr)

	_, err = evalIn(t, en, "(+ 1 (1 2))")
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, KindCombination, typeErr.Actual)
}

func TestEval_Quote(t *testing.T) {
	en := NewEnv(Globalenv)
	assert.Equal(t, Symbol("y"), mustEval(t, en, "(quote y)"))
	assert.True(t, Equal(
		List(Symbol("car"), Integer(5)),
		mustEval(t, en, "(quote (car 5))"),
	))
	mustEval(t, en, "(set s (quote hello))")
	assert.Equal(t, Symbol("hello"), mustEval(t, en, "s"))
}

func TestEval_Arity(t *testing.T) {
	en := NewEnv(Globalenv)
	cases := []struct {
		code  string
		err   ArityError
		msg   string
	}{
		{"(car)", ArityError{"car", 1, 1, 0}, "car expects 1 operands, got 0"},
		{"(cdr 1 2)", ArityError{"cdr", 1, 1, 2}, "cdr expects 1 operands, got 2"},
		{"(cons 1)", ArityError{"cons", 2, 2, 1}, "cons expects 2 operands, got 1"},
		{"(if 1 2)", ArityError{"if", 3, 3, 2}, "if expects 3 operands, got 2"},
		{"(set x)", ArityError{"set", 2, 2, 1}, "set expects 2 operands, got 1"},
		{"(get)", ArityError{"get", 1, 1, 0}, "get expects 1 operands, got 0"},
		{"(make-array)", ArityError{"make-array", 1, 2, 0}, "make-array expects 1 to 2 operands, got 0"},
	}
	for _, c := range cases {
		_, err := evalIn(t, en, c.code)
		var arityErr *ArityError
		if !assert.ErrorAs(t, err, &arityErr, c.code) {
			continue
		}
		assert.Equal(t, c.err, *arityErr, c.code)
		assert.Equal(t, c.msg, err.Error(), c.code)
	}
}

func TestEval_NotApplicable(t *testing.T) {
	en := NewEnv(Globalenv)
	mustEval(t, en, "(set x 5)")
	_, err := evalIn(t, en, "(x 1)")
	var notApplicable *NotApplicableError
	require.ErrorAs(t, err, &notApplicable)
	assert.Equal(t, Integer(5), notApplicable.Value)

	mustEval(t, en, "(set s (quote sym))")
	_, err = evalIn(t, en, "(s 1)")
	require.ErrorAs(t, err, &notApplicable)
	assert.Equal(t, Symbol("sym"), notApplicable.Value)

	_, err = evalIn(t, en, "(nosuchfn 1)")
	assert.ErrorAs(t, err, new(*UnboundSymbolError))

	_, err = Apply(Integer(3))
	assert.ErrorAs(t, err, &notApplicable)
}

func TestEval_Procedures(t *testing.T) {
	en := NewEnv(Globalenv)
	v := mustEval(t, en, "car")
	assert.Equal(t, KindProcedure, v.Kind())
	assert.Equal(t, "Procedure (car)", v.String())

	mustEval(t, en, "(set first car)")
	assert.Equal(t, Integer(1), mustEval(t, en, "(first (1 2))"))

	_, err := evalIn(t, en, "(first)")
	assert.ErrorAs(t, err, new(*ArityError))

	result, err := Apply(v, List(Integer(9)))
	require.NoError(t, err)
	assert.Equal(t, Integer(9), result)

	// set, get and if have no procedure value
	_, err = evalIn(t, en, "if")
	assert.ErrorAs(t, err, new(*UnboundSymbolError))
	assert.True(t, IsSpecialForm("if"))
	assert.True(t, IsSpecialForm("car"))
	assert.False(t, IsSpecialForm("list"))
}

func TestEval_ImproperOperands(t *testing.T) {
	en := NewEnv(Globalenv)
	_, err := Eval(Cons(Symbol("car"), Integer(1)), en)
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, &TypeError{"car", KindNil, KindInteger}, typeErr)

	_, err = Eval(Cons(Symbol("list"), Cons(Integer(1), Integer(2))), en)
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "list", typeErr.Op)
}

func TestEval_ErrorKeepsEarlierBindings(t *testing.T) {
	en := NewEnv(Globalenv)
	_, err := evalIn(t, en, "(cons (set a 1) (car 5))")
	require.Error(t, err)
	assert.Equal(t, Integer(1), mustEval(t, en, "a"))
}

func TestEnv(t *testing.T) {
	outer := NewEnv(nil)
	inner := NewEnv(outer)

	outer.Bind("a", Integer(1))
	outer.Bind("b", Integer(2))
	inner.Bind("b", Integer(20))
	inner.Bind("c", Integer(30))

	v, err := inner.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, Integer(1), v)
	v, err = inner.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, Integer(20), v, "inner binding shadows outer")
	v, err = outer.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, Integer(2), v, "binding in inner scope leaves outer untouched")
	_, err = outer.Lookup("c")
	assert.Error(t, err)

	assert.Same(t, outer, inner.FindRead("a"))
	assert.Same(t, inner, inner.FindRead("b"))
	assert.Nil(t, inner.FindRead("zzz"))

	inner.Bind("a0", Integer(0))
	assert.Equal(t, []Symbol{"a0", "b", "c"}, inner.Names())
	assert.Equal(t, 3, inner.Len())
}

func TestEnv_SetShadowsBuiltin(t *testing.T) {
	en := NewEnv(Globalenv)
	mustEval(t, en, "(set list 5)")
	assert.Equal(t, Integer(5), mustEval(t, en, "list"))
	v, err := Globalenv.Lookup("list")
	require.NoError(t, err)
	assert.Equal(t, KindProcedure, v.Kind())

	// special forms dispatch by name regardless of bindings
	mustEval(t, en, "(set car 1)")
	assert.Equal(t, Integer(1), mustEval(t, en, "(car (1 2))"))
}
