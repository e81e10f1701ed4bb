// Package mailer delivers note emails through a pluggable transport.
package mailer

import (
	"context"
)

// Message is the ephemeral value handed to a transport. It is not
// retained after the send attempt completes.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Transport delivers a message. Implementations make exactly one attempt;
// there is no retry or queueing.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
