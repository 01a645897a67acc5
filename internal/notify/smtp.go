package notify

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/BruksfildServices01/mediplus/internal/config"
)

type SMTPSink struct {
	dialer   *gomail.Dialer
	from     string
	renderer *Renderer
}

func NewSMTPSink(cfg config.MailConfig, renderer *Renderer) *SMTPSink {
	return &SMTPSink{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		renderer: renderer,
	}
}

func (s *SMTPSink) Send(ctx context.Context, msg Message) error {
	r, err := s.renderer.Render(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", r.Subject)
	m.SetBody("text/plain", r.Text)
	m.AddAlternative("text/html", r.HTML)

	// gomail has no context support; a send that outlives ctx is abandoned.
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending %s to %s: %w", msg.Template, msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending %s to %s: %w", msg.Template, msg.To, ctx.Err())
	}
}
