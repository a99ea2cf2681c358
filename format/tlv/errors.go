package tlv

import (
	"fmt"

	"github.com/eluv-io/errors-go"
)

// Code classifies the failures of this package. A Code is set as the cause of the errors returned by all functions
// and methods of the package - use CodeOf or IsCode to retrieve it.
type Code int

const (
	// InvalidTag is returned for negative tags or tags that need more than 4 continuation bytes.
	InvalidTag Code = iota + 1
	// InvalidValueLength is returned for payloads exceeding the configured maximum or negative lengths.
	InvalidValueLength
	// NotConstructed is returned when attaching children to a primitive node.
	NotConstructed
	// TruncatedInput is returned if fewer bytes remain than a length field declares.
	TruncatedInput
	// LengthTooLong is returned for long-form lengths of more than 4 bytes (or the unsupported indefinite form).
	LengthTooLong
	// MalformedTag is returned for tag continuations that do not terminate or are not minimally encoded.
	MalformedTag
	// CorruptBuffer is returned if there are not even enough bytes for a minimal tag and length, or the nesting of
	// constructed values exceeds the configured depth.
	CorruptBuffer
	// InvalidState is returned for nodes that fail their validity check or illegal structural mutations.
	InvalidState
)

var codeNames = [...]string{
	InvalidTag:         "invalid tag",
	InvalidValueLength: "invalid value length",
	NotConstructed:     "not constructed",
	TruncatedInput:     "truncated input",
	LengthTooLong:      "length too long",
	MalformedTag:       "malformed tag",
	CorruptBuffer:      "corrupt buffer",
	InvalidState:       "invalid state",
}

func (c Code) String() string {
	if c > 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error implements the error interface, so that a Code can be used as cause of an errors.Error.
func (c Code) Error() string {
	return "tlv: " + c.String()
}

// CodeOf returns the Code of the given error or 0 if the error was not produced by this package.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return 0
}

// IsCode returns true if the given error carries the given Code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
