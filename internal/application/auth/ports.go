package auth

import (
	"context"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// Notifier canal de correo saliente del subsistema de auth.
//
// SendPasswordReset es parte del flujo: si falla, el reset pendiente se
// revierte y el caller recibe el error. SendWelcome es best-effort y se
// dispara en goroutine; su fallo solo se loguea.
type Notifier interface {
	SendWelcome(ctx context.Context, user *entity.User) error
	SendPasswordReset(ctx context.Context, user *entity.User, resetURL string) error
}
