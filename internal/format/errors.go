package format

import "fmt"

// Op names the operation that failed.
type Op string

const (
	OpParse     Op = "parse"
	OpStringify Op = "stringify"
)

// Error tags a codec failure with the format and operation it came from.
// The codec's own error is kept unchanged and reachable through Unwrap.
type Error struct {
	Kind Kind
	Op   Op
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Kind.Name(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseError tags err as a parse failure of kind k.
func ParseError(k Kind, err error) error {
	return &Error{Kind: k, Op: OpParse, Err: err}
}

// StringifyError tags err as a serialization failure of kind k.
func StringifyError(k Kind, err error) error {
	return &Error{Kind: k, Op: OpStringify, Err: err}
}
