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
import "sync"

/* serialized access to one environment: the prompt, scripts and file
watchers all evaluate through a Session */

type Session struct {
	mu    sync.Mutex
	En    *Env
	Trace *Tracefile // optional
}

func NewSession(en *Env) *Session {
	return &Session{En: en}
}

// Run calls f with exclusive access to the environment. A panic inside f
// is returned as an error.
func (s *Session) Run(f func(en *Env) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return f(s.En)
}

// EvalAll reads every expression of s and evaluates them in order. On error
// the results of the expressions evaluated so far are returned with it; a
// syntax error stops before anything is evaluated.
func EvalAll(source, s string, en *Env, trace *Tracefile) ([]Value, error) {
	code, err := ReadAll(source, s)
	if err != nil {
		return nil, err
	}
	results := make([]Value, 0, len(code))
	for _, expression := range code {
		var result Value
		if trace != nil {
			trace.Duration(Serialize(expression), "scm", func() {
				result, err = Eval(expression, en)
			})
		} else {
			result, err = Eval(expression, en)
		}
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// EvalString evaluates all expressions of s under the session lock.
func (s *Session) EvalString(source, text string) (results []Value, err error) {
	err = s.Run(func(en *Env) error {
		var err error
		results, err = EvalAll(source, text, en, s.Trace)
		return err
	})
	return
}
