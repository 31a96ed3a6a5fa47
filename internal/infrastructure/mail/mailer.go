// Package mail implementa ports.Mailer: SMTP con gomail o solo log cuando no hay servidor configurado.
package mail

import (
	"context"
	"fmt"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// VerificationLink URL pública que confirma el email.
func VerificationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email/%s", baseURL, url.PathEscape(token))
}

// SMTPMailer envía los correos por SMTP.
type SMTPMailer struct {
	from    string
	baseURL string
	send    func(*gomail.Message) error
}

// NewSMTPMailer construye el mailer con el servidor de la configuración.
func NewSMTPMailer(cfg config.SMTPConfig, publicBaseURL string) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{
		from:    cfg.From,
		baseURL: publicBaseURL,
		send:    func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

// SendVerification envía el enlace de verificación. gomail no acepta contexto: si ctx vence antes
// de terminar se devuelve ctx.Err() y el envío en curso se abandona.
func (m *SMTPMailer) SendVerification(ctx context.Context, recipient, username, token string) error {
	msg := m.verificationMessage(recipient, username, token)
	done := make(chan error, 1)
	go func() { done <- m.send(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SMTPMailer) verificationMessage(recipient, username, token string) *gomail.Message {
	link := VerificationLink(m.baseURL, token)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Confirma tu correo")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nConfirma tu correo abriendo este enlace:\n%s\n\nSi no creaste esta cuenta, ignora este mensaje.\n",
		username, link,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(
		`<p>Hola %s,</p><p>Confirma tu correo abriendo <a href="%s">este enlace</a>.</p>`,
		username, link,
	))
	return msg
}

// LogMailer registra el enlace en el log en lugar de enviarlo (desarrollo).
type LogMailer struct {
	log     *logger.Logger
	baseURL string
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger, publicBaseURL string) *LogMailer {
	return &LogMailer{log: log, baseURL: publicBaseURL}
}

// SendVerification escribe el enlace en el log.
func (m *LogMailer) SendVerification(_ context.Context, recipient, username, token string) error {
	m.log.Info().
		Str("to", recipient).
		Str("username", username).
		Str("link", VerificationLink(m.baseURL, token)).
		Msg("correo de verificación (SMTP no configurado)")
	return nil
}

// New elige el mailer según la configuración.
func New(cfg config.SMTPConfig, publicBaseURL string, log *logger.Logger) ports.Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg, publicBaseURL)
	}
	return NewLogMailer(log, publicBaseURL)
}
