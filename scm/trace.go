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
import "sync"
import "time"
import "path/filepath"
import "encoding/json"

// Tracefile writes events in the Chrome trace format (chrome://tracing).
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	start   time.Time
	m       sync.Mutex
	closed  sync.Once
}

// OpenTrace creates trace_<id>.json in dir.
func OpenTrace(dir, id string) (*Tracefile, error) {
	f, err := os.Create(filepath.Join(dir, "trace_"+id+".json"))
	if err != nil {
		return nil, err
	}
	return NewTrace(f), nil
}

func NewTrace(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	result := new(Tracefile)
	result.file = file
	result.isFirst = true
	result.start = time.Now()
	return result
}

// Close terminates the JSON array; further calls do nothing.
func (t *Tracefile) Close() {
	t.closed.Do(func() {
		t.m.Lock()
		defer t.m.Unlock()
		t.file.Write([]byte("]"))
		t.file.Close()
		t.file = nil
	})
}

func (t *Tracefile) Duration(name string, cat string, f func()) {
	t.Event(name, cat, "B")
	defer t.Event(name, cat, "E")
	f()
}

func (t *Tracefile) Event(name string, cat string, typ string) {
	t.EventFull(name, cat, typ, time.Since(t.start).Microseconds(), 0, 0)
}

/*
	@name string function
	@cat string comma separated categories (for filtering)
	@typ B/E for begin/end, X for events
	@ts timestamp in microseconds
	@pid process id
	@tid thread id
*/
func (t *Tracefile) EventFull(name string, cat string, typ string, ts int64, tid int, pid int) {
	t.m.Lock()
	defer t.m.Unlock()
	if t.file == nil {
		return
	}
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	t.file.Write([]byte("{\"name\": "))
	b, _ := json.Marshal(name)
	t.file.Write(b)
	t.file.Write([]byte(", \"cat\": "))
	b, _ = json.Marshal(cat)
	t.file.Write(b)
	t.file.Write([]byte(", \"ph\": \""))
	t.file.Write([]byte(typ))
	t.file.Write([]byte("\", \"ts\": "))
	b, _ = json.Marshal(ts)
	t.file.Write(b)
	t.file.Write([]byte(", \"pid\": "))
	b, _ = json.Marshal(pid)
	t.file.Write(b)
	t.file.Write([]byte(", \"tid\": "))
	b, _ = json.Marshal(tid)
	t.file.Write(b)
	t.file.Write([]byte(", \"s\": \"g\"}"))
}
