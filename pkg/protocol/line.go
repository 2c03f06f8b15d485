// Package protocol defines the line-oriented wire format exchanged between
// peers through the relay.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Separator sits between the sender tag and the text on the wire.
const Separator = ": "

var (
	ErrEmptySender     = errors.New("sender must not be empty")
	ErrEmbeddedNewline = errors.New("line must not contain a newline")
	ErrMalformed       = errors.New("malformed chat line")
	ErrSeparatorInID   = errors.New("identity must not contain the separator")
)

// Line is one sender-tagged chat message.
type Line struct {
	Sender string
	Text   string
}

// String returns the wire representation, ignoring validation.
func (l Line) String() string {
	return l.Sender + Separator + l.Text
}

// Encode validates the line and returns "<sender>: <text>" without a
// terminator. Framing is the transport's job.
func (l Line) Encode() (string, error) {
	if l.Sender == "" {
		return "", fmt.Errorf("failed to encode line: %w", ErrEmptySender)
	}
	if hasNewline(l.Sender) || hasNewline(l.Text) {
		return "", fmt.Errorf("failed to encode line: %w", ErrEmbeddedNewline)
	}
	return l.String(), nil
}

// Decode parses a wire line. The sender ends at the first separator, so text
// may itself contain ": ".
func (l *Line) Decode(wire string) error {
	wire = strings.TrimRight(wire, "\r\n")
	sender, text, ok := strings.Cut(wire, Separator)
	if !ok || sender == "" {
		return fmt.Errorf("failed to decode line %q: %w", wire, ErrMalformed)
	}
	if hasNewline(text) {
		return fmt.Errorf("failed to decode line: %w", ErrEmbeddedNewline)
	}
	l.Sender = sender
	l.Text = text
	return nil
}

// IsBlank reports whether text is empty or whitespace only. Blank input
// never becomes a Line.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ValidateIdentity checks that id can tag outgoing lines and still be
// recovered by Decode.
func ValidateIdentity(id string) error {
	switch {
	case id == "":
		return ErrEmptySender
	case hasNewline(id):
		return ErrEmbeddedNewline
	case strings.Contains(id, Separator):
		return ErrSeparatorInID
	}
	return nil
}

func hasNewline(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}
