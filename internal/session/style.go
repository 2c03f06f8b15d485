package session

import "github.com/omochice/relay-chat/pkg/protocol"

// Style decorates what the session prints. Nil fields leave text unchanged.
type Style struct {
	// Sender renders the sender tag of an inbound chat line.
	Sender func(string) string
	// Notice renders lifecycle notices such as ClosedNotice.
	Notice func(string) string
	// Error renders error reports.
	Error func(string) string
}

func (st Style) renderMessage(text string) string {
	if st.Sender == nil {
		return text
	}
	var line protocol.Line
	if err := line.Decode(text); err != nil {
		return text
	}
	return st.Sender(line.Sender) + protocol.Separator + line.Text
}

func (st Style) renderNotice(text string) string {
	return apply(st.Notice, text)
}

func (st Style) renderError(err error) string {
	return apply(st.Error, "Error: "+err.Error())
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}
