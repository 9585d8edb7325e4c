// Package email implementa el Notifier de auth sobre SMTP con gomail.
package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/eraam/booksaloon-api/internal/application/auth"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/pkg/config"
)

var _ auth.Notifier = (*SMTPNotifier)(nil)

// SMTPNotifier envía los correos transaccionales de la aplicación.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier construye el notifier con la configuración SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendWelcome envía el correo de bienvenida tras el registro.
func (n *SMTPNotifier) SendWelcome(ctx context.Context, user *entity.User) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nBienvenido a Book Saloon. Tu cuenta ya está activa.\n\nEl equipo de Book Saloon",
		user.Username)
	return n.send(ctx, user.Email, "Welcome to Book Saloon!", body)
}

// SendPasswordReset envía el link de reset. El link contiene el secreto en
// claro y es válido por 10 minutos.
func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, user *entity.User, resetURL string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\n¿Olvidaste tu contraseña? Usa este link para definir una nueva (válido por 10 minutos):\n\n%s\n\nSi no lo solicitaste, ignora este correo.",
		user.Username, resetURL)
	return n.send(ctx, user.Email, "Your password reset token (valid for 10 min)", body)
}

// send arma y envía el mensaje respetando la cancelación del contexto:
// gomail no acepta ctx, así que el envío corre en una goroutine.
func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
