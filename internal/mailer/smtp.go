package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

// SMTP sends mail through an authenticated SMTP server. The sender
// identity is always the configured user address.
type SMTP struct {
	host string
	port int
	user string
	pass string
}

// NewSMTP builds an SMTP transport. Credentials are not verified here;
// a bad or missing credential surfaces on the first Send.
func NewSMTP(host string, port int, user, pass string) *SMTP {
	return &SMTP{host: host, port: port, user: user, pass: pass}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.user); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", s.user, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.pass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Debug().Err(err).Msg("smtp close failed")
		}
	}()

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return err
	}

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivered")
	return nil
}
