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
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// prompt keeps the lines of an expression whose parentheses are still open.
type prompt struct {
	session *Session
	out     io.Writer
	oldline string
}

// feed handles one input line and returns the prompt for the next one.
func (p *prompt) feed(line string) string {
	line = p.oldline + line
	if strings.TrimSpace(line) == "" {
		p.oldline = ""
		return newprompt
	}
	results, err := p.session.EvalString("user prompt", line)
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Incomplete() {
		// keep oldline
		p.oldline = line + "\n"
		return contprompt
	}
	p.oldline = ""
	for _, result := range results {
		fmt.Fprintln(p.out, resultprompt+Print(result))
	}
	if err != nil {
		fmt.Fprintln(p.out, "error:", err)
	}
	return newprompt
}

// Repl reads expressions from the terminal until EOF, exit or ^C on an
// empty line. Errors are printed and the loop continues.
func Repl(s *Session, historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	p := &prompt{session: s, out: l.Stdout()}
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 && p.oldline == "" {
				return nil
			}
			p.oldline = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if p.oldline == "" && strings.TrimSpace(line) == "exit" {
			return nil
		}
		l.SetPrompt(p.feed(line))
	}
}
