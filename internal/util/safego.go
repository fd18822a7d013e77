// safego.go — Panic-recovering goroutine launcher.
package util

import (
	"fmt"
	"os"
	"runtime/debug"
)

// SafeGo launches fn in a goroutine with deferred panic recovery. A panic is
// written to stderr with its stack under name; the process keeps running.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "[sitelens] PANIC in %s: %v\n%s\n", name, r, debug.Stack())
			}
		}()
		fn()
	}()
}
