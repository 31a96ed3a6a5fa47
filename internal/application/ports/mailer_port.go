package ports

import "context"

// Mailer envía el correo de verificación. El envío es best effort: el llamador solo registra el error.
type Mailer interface {
	SendVerification(ctx context.Context, recipient, username, token string) error
}
