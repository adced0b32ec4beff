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

import "io"
import "os"
import "fmt"
import "strings"
import "path/filepath"

// Variadic as MaxParameter means no upper bound.
const Variadic = -1

// Declaration describes a built-in procedure or special form. Special forms
// are declared with a nil Fn so they show up in help without being bound.
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int
	Params       []DeclarationParameter
	Returns      string // any | int | symbol | list | array | func | nil
	Fn           func(a ...Value) (Value, error)
}

type DeclarationParameter struct {
	Name string
	Type string // any | int | symbol | list | array | func | nil
	Desc string
}

var declarationTitles []string
var declarations map[string]*Declaration = make(map[string]*Declaration)

// DeclareTitle starts a new chapter; declaring the same title twice is a no-op.
func DeclareTitle(title string) {
	for _, t := range declarationTitles {
		if t == "#"+title {
			return
		}
	}
	declarationTitles = append(declarationTitles, "#"+title)
}

// Declare registers def for help and binds it as a procedure in en.
func Declare(en *Env, def *Declaration) {
	if _, ok := declarations[def.Name]; !ok {
		declarationTitles = append(declarationTitles, def.Name)
	}
	declarations[def.Name] = def
	if def.Fn != nil {
		en.Bind(Symbol(def.Name), &Builtin{def})
	}
}

// LookupDeclaration returns the declaration registered under name.
func LookupDeclaration(name string) (*Declaration, bool) {
	def, ok := declarations[name]
	return def, ok
}

func (def *Declaration) checkArity(given int) error {
	if given < def.MinParameter || (def.MaxParameter != Variadic && given > def.MaxParameter) {
		return &ArityError{def.Name, def.MinParameter, def.MaxParameter, given}
	}
	return nil
}

func (def *Declaration) arityText() string {
	if def.MaxParameter == Variadic {
		return fmt.Sprintf("%d or more", def.MinParameter)
	}
	if def.MinParameter == def.MaxParameter {
		return fmt.Sprint(def.MinParameter)
	}
	return fmt.Sprintf("%d-%d", def.MinParameter, def.MaxParameter)
}

// Call checks the declared arity and runs the procedure.
func (f *Builtin) Call(a ...Value) (Value, error) {
	if err := f.Decl.checkArity(len(a)); err != nil {
		return nil, err
	}
	return f.Decl.Fn(a...)
}

// Help writes the list of all declarations, or the details of one, to w.
func Help(w io.Writer, name string) error {
	if name == "" {
		fmt.Fprintln(w, "Available scm functions:")
		for _, title := range declarationTitles {
			if title[0] == '#' {
				fmt.Fprintln(w, "")
				fmt.Fprintln(w, "-- "+title[1:]+" --")
			} else {
				fmt.Fprintln(w, "  "+title+": "+strings.Split(declarations[title].Desc, "\n")[0])
			}
		}
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "get further information by typing (help functionname)")
		return nil
	}
	def, ok := declarations[name]
	if !ok {
		return fmt.Errorf("function not found: %s", name)
	}
	fmt.Fprintln(w, "Help for: "+def.Name)
	fmt.Fprintln(w, "===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: "+def.usage())
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, def.Desc)
	fmt.Fprintln(w, def.evaluation())
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Allowed number of parameters:", def.arityText())
	fmt.Fprintln(w, "")
	for _, p := range def.Params {
		fmt.Fprintln(w, " - "+p.Name+" ("+p.Type+"): "+p.Desc)
	}
	fmt.Fprintln(w, "")
	return nil
}

// usage renders the call shape; optional parameters are bracketed.
func (def *Declaration) usage() string {
	var b strings.Builder
	b.WriteString("(" + def.Name)
	for i, p := range def.Params {
		if i < def.MinParameter {
			b.WriteString(" " + p.Name)
		} else {
			b.WriteString(" [" + p.Name + "]")
		}
	}
	b.WriteString(")")
	return b.String()
}

// evaluation describes how operands reach a declaration.
func (def *Declaration) evaluation() string {
	switch {
	case !IsSpecialForm(Symbol(def.Name)):
		return "Procedure: all operands are evaluated left to right before the call."
	case def.Fn == nil:
		return "Special form: operands are passed unevaluated and evaluated only as described above. It has no procedure value."
	default:
		return "Special form: operands are evaluated left to right. Also bound as a procedure value."
	}
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "chapter"
	}
	return b.String()
}

type chapter struct {
	title string
	defs  []*Declaration
}

// chapters groups the declarations under their titles in declaration order.
func chapters() []*chapter {
	var result []*chapter
	for _, t := range declarationTitles {
		if t[0] == '#' {
			result = append(result, &chapter{title: t[1:]})
			continue
		}
		if len(result) == 0 {
			result = append(result, &chapter{title: "General"})
		}
		ch := result[len(result)-1]
		ch.defs = append(ch.defs, declarations[t])
	}
	return result
}

// WriteDocumentation writes index.md and one markdown file per chapter into folder.
func WriteDocumentation(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	var index strings.Builder
	index.WriteString("# stonkscheme reference\n\n")
	for _, ch := range chapters() {
		if len(ch.defs) == 0 {
			continue
		}
		slug := slugify(ch.title)
		fmt.Fprintf(&index, "- [%s](%s.md)\n", ch.title, slug)

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", ch.title)
		for _, def := range ch.defs {
			fmt.Fprintf(&b, "## %s\n\n`%s`\n\n%s\n\n", def.Name, def.usage(), def.Desc)
			fmt.Fprintf(&b, "%s\n\n", def.evaluation())
			fmt.Fprintf(&b, "**Allowed number of parameters:** %s\n\n", def.arityText())
			for _, p := range def.Params {
				fmt.Fprintf(&b, "- **%s** (`%s`): %s\n", p.Name, p.Type, p.Desc)
			}
			if len(def.Params) > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "**Returns:** `%s`\n\n", def.Returns)
		}
		if err := os.WriteFile(filepath.Join(folder, slug+".md"), []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("docs: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(folder, "index.md"), []byte(index.String()), 0o644); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	return nil
}
