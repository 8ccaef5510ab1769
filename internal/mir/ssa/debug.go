/*
 * Copyright 2025 The jsavrs Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `fmt`
    `os`

    `github.com/davecgh/go-spew/spew`
)

// Logger is the sink for verbose analyzer traces. Injecting it keeps
// the analyzers free of global I/O and lets tests capture the events.
type Logger interface {
    Tracef(format string, args ...interface{})
}

type _StderrLogger struct{}

func (_StderrLogger) Tracef(format string, args ...interface{}) {
    fmt.Fprintf(os.Stderr, format + "\n", args...)
}

func (self *SCCP) tracef(format string, args ...interface{}) {
    if self.cc.Verbose {
        if self.cc.Log != nil {
            self.cc.Log.Tracef(format, args...)
        } else {
            _StderrLogger{}.Tracef(format, args...)
        }
    }
}

// dump renders the analyzer state for trace messages. It is only ever
// evaluated on the verbose path.
func (self *SCCP) dump() string {
    if !self.cc.Verbose {
        return ""
    }
    return fmt.Sprintf(
        "stats = %sexecutable blocks = %slattice = %s",
        spew.Sdump(self.stats),
        spew.Sdump(self.exe.bb),
        spew.Sdump(self.lat),
    )
}
