package domain

import "errors"

// Errores de dominio. Los handlers los mapean a códigos HTTP estables;
// cualquier error no listado aquí se trata como fallo interno (500).
var (
	// ErrNotFound el recurso no existe o no es visible (incluye usuarios inactivos).
	ErrNotFound = errors.New("recurso no encontrado")

	// ErrEmailAlreadyExists ya existe una cuenta con ese email.
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	// ErrDuplicateReview el usuario ya reseñó este libro.
	ErrDuplicateReview = errors.New("ya existe una reseña de este usuario para este libro")

	// ErrInvalidCredentials email o contraseña incorrectos. Mensaje único para
	// ambos casos: no se revela si la cuenta existe.
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")

	// ErrWrongPassword la contraseña actual no coincide (cambio de contraseña).
	ErrWrongPassword = errors.New("la contraseña actual es incorrecta")

	// ErrPasswordMismatch la contraseña y su confirmación no coinciden.
	ErrPasswordMismatch = errors.New("las contraseñas no coinciden")

	// ErrPasswordTooShort la contraseña no cumple el largo mínimo.
	ErrPasswordTooShort = errors.New("la contraseña debe tener al menos 8 caracteres")

	// ErrInvalidResetToken token de reset inválido, expirado o ya usado.
	ErrInvalidResetToken = errors.New("token inválido o expirado")

	// ErrDeliveryFailure no se pudo enviar el correo de reset.
	ErrDeliveryFailure = errors.New("hubo un error enviando el email, intenta de nuevo más tarde")

	// ErrUnauthenticated la petición no tiene identidad válida.
	ErrUnauthenticated = errors.New("no autenticado")

	// ErrForbidden la identidad es válida pero el rol no alcanza.
	ErrForbidden = errors.New("no tienes permiso para realizar esta acción")

	// ErrValidation entrada sintácticamente inválida.
	ErrValidation = errors.New("datos de entrada inválidos")
)
