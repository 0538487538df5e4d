package plist

import "strconv"

// FormatError indicates that a byte buffer is not a well-formed binary
// property list, or that an archive's internal references cannot be
// resolved.
type FormatError struct {
	// Pos is the byte offset where the problem was detected, or -1 when
	// the error is not tied to a single position.
	Pos int64
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	msg := "plist: " + e.Msg
	if e.Pos >= 0 {
		msg += " at offset " + strconv.FormatInt(e.Pos, 10)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }
