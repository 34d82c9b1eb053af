package reconcile

import "fmt"

// Kind classifies a per-item reconciliation failure for the worklist driver.
type Kind int

const (
	// KindSkip marks expected per-item problems: no matching database row,
	// a malformed embedded template. The item is logged and skipped; other
	// items are unaffected.
	KindSkip Kind = iota + 1
	// KindFatal marks problems that invalidate the whole run, such as an
	// unreadable authoritative database.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSkip:
		return "skip"
	case KindFatal:
		return "fatal"
	}
	return "unknown"
}

// ItemError tags an error with its kind so the worklist driver can switch on
// it without an exception-style hierarchy.
type ItemError struct {
	Kind Kind
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func skipErr(err error) error {
	return &ItemError{Kind: KindSkip, Err: err}
}

func fatalErr(err error) error {
	return &ItemError{Kind: KindFatal, Err: err}
}
