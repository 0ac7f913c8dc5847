package errors

import (
	"fmt"
	"strings"
)

// List aggregates load-phase errors so every problem in the content tree is
// reported in a single build attempt instead of stopping at the first one.
type List struct {
	errs []error
}

// Add appends an error; nil errors are ignored.
func (l *List) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// AddList merges another list into this one.
func (l *List) AddList(other *List) {
	if other != nil {
		l.errs = append(l.errs, other.errs...)
	}
}

// Len returns the number of collected errors.
func (l *List) Len() int { return len(l.errs) }

// Errors returns the collected errors in insertion order.
func (l *List) Errors() []error { return l.errs }

// Err returns the list as an error, or nil when empty.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// Error implements the error interface with one line per collected error.
func (l *List) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d content error(s):", len(l.errs))
	for _, err := range l.errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.Is/errors.As.
func (l *List) Unwrap() []error { return l.errs }
