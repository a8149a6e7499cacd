// Package cliutil holds small output helpers shared by the openapix commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to w.
// A failed write is reported on stderr instead of being returned.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Count formats n followed by singular or plural, e.g. "1 error" or "3 errors".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
