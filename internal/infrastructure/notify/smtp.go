// Package notify implements the notification sender contract over SMTP.
// Delivery is best-effort: callers treat per-recipient failures as non-fatal.
package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPNotifier sends multipart/alternative mail through a plain SMTP relay.
type SMTPNotifier struct {
	addr   string // host:port of the relay
	from   string
	logger zerolog.Logger
}

func NewSMTPNotifier(addr, from string, logger zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from, logger: logger}
}

// Send delivers one message. The context deadline is not plumbed into
// net/smtp (which has no context support); the relay connect timeout applies.
func (n *SMTPNotifier) Send(_ context.Context, recipient, subject, htmlBody, textBody string) error {
	msg := n.buildMessage(recipient, subject, htmlBody, textBody)

	if err := smtp.SendMail(n.addr, nil, n.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}

	n.logger.Debug().Str("recipient", recipient).Str("subject", subject).Msg("notification sent")
	return nil
}

const boundary = "sitebeam-alt"

func (n *SMTPNotifier) buildMessage(recipient, subject, htmlBody, textBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}
