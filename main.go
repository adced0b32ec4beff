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
	stonkscheme: a small s-expression interpreter with a readline prompt
*/
package main

import "os"
import "io"
import "fmt"
import "flag"
import "errors"
import "time"
import "syscall"
import "os/signal"
import "path/filepath"
import "github.com/google/uuid"
import "github.com/dc0d/onexit"
import "github.com/fsnotify/fsnotify"
import units "github.com/docker/go-units"
import "github.com/launix-de/go-mysqlstack/xlog"
import "github.com/b33j0r/stonkscheme/scm"

// IOEnv holds the functions that touch the outside world; scm itself
// only provides pure builtins.
var IOEnv *scm.Env

var log *xlog.Log = xlog.NewStdLog(xlog.Level(xlog.INFO))

// output of print and help
var stdout io.Writer = os.Stdout

type Settings struct {
	Commands []string
	Watch    bool
	Trace    bool
	TraceDir string
	History  string
	DocsDir  string
	NoRepl   bool
	Verbose  bool
	Wd       string
	Scripts  []string
}

// workaround for flags package to allow multiple values
type arrayFlags []string

func (i *arrayFlags) String() string {
	return fmt.Sprint(*i)
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func parseSettings(fs *flag.FlagSet, args []string) (Settings, error) {
	var s Settings
	var commands arrayFlags
	fs.Var(&commands, "c", "Evaluate an expression and print the result (repeatable)")
	fs.BoolVar(&s.Watch, "watch", false, "Re-evaluate script files when they change on disk")
	fs.BoolVar(&s.Trace, "trace", false, "Write a chrome trace of all top-level evaluations")
	fs.StringVar(&s.TraceDir, "tracedir", os.Getenv("STONKSCHEME_TRACEDIR"), "Folder for trace files")
	fs.StringVar(&s.History, "history", ".stonkscheme-history.tmp", "History file of the prompt")
	fs.StringVar(&s.DocsDir, "docs", "", "Write markdown documentation of all functions into this folder and exit")
	fs.BoolVar(&s.NoRepl, "norepl", false, "Do not start the interactive prompt")
	fs.BoolVar(&s.Verbose, "v", false, "Debug logging")
	wd, _ := os.Getwd() // scripts are relative to the working directory... or change with -wd PATH
	fs.StringVar(&s.Wd, "wd", wd, "Working directory for (load) and script arguments")
	if err := fs.Parse(args); err != nil {
		return s, err
	}
	s.Commands = commands
	s.Scripts = fs.Args()
	return s, nil
}

func resolve(wd, filename string) string {
	if filepath.IsAbs(filename) {
		return filepath.Clean(filename)
	}
	return filepath.Join(wd, filename)
}

var errRecursiveLoad = errors.New("file is already being loaded")

// files whose evaluation is in progress; guarded by the session lock
var loading = make(map[string]bool)

// loadFile evaluates every expression of a script in en and returns the
// last result. The caller holds the session.
func loadFile(filename string, en *scm.Env, trace *scm.Tracefile) (scm.Value, error) {
	if loading[filename] {
		return nil, fmt.Errorf("%s: %w", filename, errRecursiveLoad)
	}
	loading[filename] = true
	defer delete(loading, filename)

	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	log.Debug("loading %s (%s)", filename, units.HumanSize(float64(len(bytes))))
	results, err := scm.EvalAll(filename, string(bytes), en, trace)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if len(results) == 0 {
		return scm.NewNil(), nil
	}
	return results[len(results)-1], nil
}

func setupIO(wd string, session *scm.Session) {
	// define some IO functions (scm will not provide them since it is sandboxable)
	IOEnv = scm.NewEnv(scm.Globalenv)
	scm.DeclareTitle("IO")
	scm.Declare(IOEnv, &scm.Declaration{
		Name: "print", Desc: "Prints values to stdout separated by spaces",
		MinParameter: 1, MaxParameter: scm.Variadic,
		Params: []scm.DeclarationParameter{
			{Name: "value...", Type: "any", Desc: "values to print"},
		}, Returns: "int",
		Fn: func(a ...scm.Value) (scm.Value, error) {
			for i, s := range a {
				if i != 0 {
					fmt.Fprint(stdout, " ")
				}
				fmt.Fprint(stdout, scm.Serialize(s))
			}
			fmt.Fprintln(stdout)
			return scm.NewInt(1), nil
		},
	})
	scm.Declare(IOEnv, &scm.Declaration{
		Name: "help", Desc: "Lists all functions or prints help for a specific function",
		MinParameter: 0, MaxParameter: 1,
		Params: []scm.DeclarationParameter{
			{Name: "topic", Type: "symbol", Desc: "procedure to print help about"},
		}, Returns: "nil",
		Fn: func(a ...scm.Value) (scm.Value, error) {
			topic := ""
			if len(a) > 0 {
				topic = helpTopic(a[0])
			}
			return scm.NewNil(), scm.Help(stdout, topic)
		},
	})
	scm.Declare(IOEnv, &scm.Declaration{
		Name: "env", Desc: "returns the content of an environment variable as a symbol",
		MinParameter: 1, MaxParameter: 2,
		Params: []scm.DeclarationParameter{
			{Name: "var", Type: "symbol", Desc: "envvar"},
			{Name: "default", Type: "any", Desc: "default if the env is not found, otherwise nil"},
		}, Returns: "symbol",
		Fn: func(a ...scm.Value) (scm.Value, error) {
			name, ok := a[0].(scm.Symbol)
			if !ok {
				return nil, &scm.TypeError{Op: "env", Expected: scm.KindSymbol, Actual: a[0].Kind()}
			}
			if val, ok := os.LookupEnv(string(name)); ok {
				return scm.NewSymbol(val), nil
			}
			if len(a) > 1 {
				return a[1], nil
			}
			return scm.NewNil(), nil
		},
	})
	scm.Declare(IOEnv, &scm.Declaration{
		Name: "load", Desc: "Evaluates a script file in the current environment and returns the value of its last expression",
		MinParameter: 1, MaxParameter: 1,
		Params: []scm.DeclarationParameter{
			{Name: "filename", Type: "symbol", Desc: "filename relative to the working directory"},
		}, Returns: "any",
		Fn: func(a ...scm.Value) (scm.Value, error) {
			name, ok := a[0].(scm.Symbol)
			if !ok {
				return nil, &scm.TypeError{Op: "load", Expected: scm.KindSymbol, Actual: a[0].Kind()}
			}
			// called from inside an evaluation, so the session is already held
			return loadFile(resolve(wd, string(name)), session.En, session.Trace)
		},
	})
}

// helpTopic maps the evaluated operand of help to a declaration name.
func helpTopic(v scm.Value) string {
	switch t := v.(type) {
	case scm.Symbol:
		return string(t)
	case *scm.Builtin:
		return t.Decl.Name
	}
	return scm.Serialize(v)
}

// drain swallows the burst of events an editor produces while saving.
func drain(watcher *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
		case <-time.After(10 * time.Millisecond):
			return
		}
	}
}

func watchFile(filename string, session *scm.Session) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filename); err != nil {
		watcher.Close()
		return nil, err
	}
	onexit.Register(func() { watcher.Close() })
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				drain(watcher)
				err := session.Run(func(en *scm.Env) error {
					_, err := loadFile(filename, en, session.Trace)
					return err
				})
				if err != nil {
					// error happens during reload: log to console
					log.Error("reload %s: %v", filename, err)
				} else {
					log.Info("reloaded %s", filename)
				}
				// text editors rename, so we have to rewatch
				if err := watcher.Add(filename); err != nil {
					log.Warning("rewatch %s: %v", filename, err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warning("watch %s: %v", filename, err)
			}
		}
	}()
	return watcher, nil
}

func run(settings Settings) int {
	if settings.Verbose {
		log = xlog.NewStdLog(xlog.Level(xlog.DEBUG))
	}

	sessionID := uuid.NewString()
	session := scm.NewSession(nil)
	setupIO(settings.Wd, session)
	session.En = scm.NewEnv(IOEnv) // user bindings live in their own scope

	if settings.DocsDir != "" {
		if err := scm.WriteDocumentation(settings.DocsDir); err != nil {
			log.Error("docs: %v", err)
			return 1
		}
		return 0
	}
	log.Debug("session %s started", sessionID)

	if settings.Trace {
		trace, err := scm.OpenTrace(settings.TraceDir, sessionID)
		if err != nil {
			log.Error("trace: %v", err)
			return 1
		}
		session.Trace = trace
		onexit.Register(func() { trace.Close() }) // close trace file on exit
		defer trace.Close()
		log.Info("tracing session %s", sessionID)
	}

	status := 0
	watching := 0
	for _, script := range settings.Scripts {
		filename := resolve(settings.Wd, script)
		fmt.Fprintln(stdout, "Loading "+script+" ...")
		err := session.Run(func(en *scm.Env) error {
			_, err := loadFile(filename, en, session.Trace)
			return err
		})
		if err != nil {
			log.Error("%v", err)
			status = 1
			continue
		}
		if settings.Watch {
			if _, err := watchFile(filename, session); err != nil {
				log.Warning("watch %s: %v", filename, err)
			} else {
				watching++
			}
		}
	}
	for _, command := range settings.Commands {
		results, err := session.EvalString("command line", command)
		for _, result := range results {
			fmt.Fprintln(stdout, scm.Print(result))
		}
		if err != nil {
			fmt.Fprintln(stdout, "error:", err)
			status = 1
		}
	}

	if !settings.NoRepl {
		fmt.Fprint(stdout, "\n    Type (help) to show help\n\n")
		if err := scm.Repl(session, settings.History); err != nil {
			log.Error("prompt: %v", err)
			return 1
		}
	} else if watching > 0 {
		log.Info("watching %d files, press ^C to stop", watching)
		cancelChan := make(chan os.Signal, 1)
		signal.Notify(cancelChan, syscall.SIGTERM, syscall.SIGINT)
		<-cancelChan
	}
	log.Debug("session %s finished", sessionID)
	return status
}

func main() {
	settings, err := parseSettings(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(settings))
}
