// Package mailer sends email. The OTP flow only depends on the small Mail
// interface; SMTP is the one implementation.
package mailer

import (
	"context"
	"io"
)

// Message is a plain-text email.
type Message struct {
	// From falls back to the sender's default when empty.
	From     string
	To       []string
	Subject  string
	TextBody string
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
