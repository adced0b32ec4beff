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

func asInteger(op string, v Value) (Integer, error) {
	i, ok := v.(Integer)
	if !ok {
		return 0, &TypeError{op, KindInteger, v.Kind()}
	}
	return i, nil
}

func asArray(op string, v Value) (*Array, error) {
	a, ok := v.(*Array)
	if !ok {
		return nil, &TypeError{op, KindArray, v.Kind()}
	}
	return a, nil
}

// arrayIndex resolves the array and index operands shared by get-array and set-array.
func arrayIndex(op string, arr, idx Value) (*Array, int, error) {
	a, err := asArray(op, arr)
	if err != nil {
		return nil, 0, err
	}
	i, err := asInteger(op, idx)
	if err != nil {
		return nil, 0, err
	}
	if i < 0 || int64(i) >= int64(a.Len()) {
		return nil, 0, &RangeError{op, int64(i), a.Len()}
	}
	return a, int(i), nil
}

func init_list() {
	DeclareTitle("Lists and Arrays")

	Declare(Globalenv, &Declaration{
		"list", "returns a list containing the parameters as elements",
		0, Variadic,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "value for the list"},
		}, "list",
		func(a ...Value) (Value, error) {
			return List(a...), nil
		},
	})
	Declare(Globalenv, &Declaration{
		"array", "returns an array containing the parameters as slots",
		0, Variadic,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "value for the array"},
		}, "array",
		func(a ...Value) (Value, error) {
			return NewArray(append([]Value(nil), a...)), nil
		},
	})
	Declare(Globalenv, &Declaration{
		"make-array", "creates an array of the given length",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"length", "int", "number of slots"},
			DeclarationParameter{"fill", "any", "(optional) initial value of every slot, default nil"},
		}, "array",
		func(a ...Value) (Value, error) {
			n, err := asInteger("make-array", a[0])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, &RangeError{"make-array", int64(n), 0}
			}
			var fill Value = Nil{}
			if len(a) > 1 {
				fill = a[1]
			}
			items := make([]Value, n)
			for i := range items {
				items[i] = fill
			}
			return NewArray(items), nil
		},
	})
	Declare(Globalenv, &Declaration{
		"get-array", "reads the slot at the given index",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"array", "array", "array to read"},
			DeclarationParameter{"index", "int", "zero based index"},
		}, "any",
		func(a ...Value) (Value, error) {
			arr, i, err := arrayIndex("get-array", a[0], a[1])
			if err != nil {
				return nil, err
			}
			return arr.Get(i), nil
		},
	})
	Declare(Globalenv, &Declaration{
		"set-array", "overwrites the slot at the given index in place and returns the new value",
		3, 3,
		[]DeclarationParameter{
			DeclarationParameter{"array", "array", "array to modify"},
			DeclarationParameter{"index", "int", "zero based index"},
			DeclarationParameter{"value", "any", "new value of the slot"},
		}, "any",
		func(a ...Value) (Value, error) {
			arr, i, err := arrayIndex("set-array", a[0], a[1])
			if err != nil {
				return nil, err
			}
			arr.Set(i, a[2])
			return a[2], nil
		},
	})
	Declare(Globalenv, &Declaration{
		"array-length", "returns the number of slots",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"array", "array", "array to measure"},
		}, "int",
		func(a ...Value) (Value, error) {
			arr, err := asArray("array-length", a[0])
			if err != nil {
				return nil, err
			}
			return Integer(arr.Len()), nil
		},
	})
}
