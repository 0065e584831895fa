package canvas

import "sync"

// Mailbox is the in-process HandoffMailbox. It holds at most one message,
// keyed globally rather than per project; the receiving canvas checks the
// project id itself.
type Mailbox struct {
	mu  sync.Mutex
	msg *HandoffMessage
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish stores the message, replacing any unconsumed one.
func (m *Mailbox) Publish(msg HandoffMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msg = &msg
}

// Take removes and returns the pending message. The removal happens on read
// so the hand-off is consumed exactly once even when the project id does not
// match.
func (m *Mailbox) Take() (HandoffMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.msg == nil {
		return HandoffMessage{}, false
	}
	msg := *m.msg
	m.msg = nil
	return msg, true
}
