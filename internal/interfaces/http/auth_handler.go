package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eraam/booksaloon-api/internal/application/auth"
	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
)

// CookieConfig parámetros de la cookie de sesión.
type CookieConfig struct {
	ExpirationDays int
	Secure         bool // true en producción
}

// AuthHandler maneja registro, login y el ciclo de reset de contraseña.
type AuthHandler struct {
	uc     *auth.UseCase
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Signup godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "username, email, password, passwordConfirm"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Signup(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		case errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrPasswordMismatch),
			errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	h.setSessionCookie(c, out.Token)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Please provide email and password!"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Mismo mensaje para email inexistente y contraseña incorrecta
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "Incorrect email or password."})
		}
		return internalError(c, err)
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (limpia la cookie)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/users/logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// El token en sí no se revoca (es stateless); solo se pisa la cookie
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "loggedout",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
	})
	return c.JSON(dto.MessageResponse{Message: "success"})
}

// ForgotPassword godoc
// @Summary      Solicitar reset de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/users/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ForgotPassword(c.Context(), in); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Please provide your email address."})
		case errors.Is(err, domain.ErrDeliveryFailure):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "DELIVERY_FAILURE", Message: "There was an error sending the email. Try again later!"})
		}
		return internalError(c, err)
	}
	// Respuesta idéntica exista o no la cuenta
	return c.JSON(dto.MessageResponse{Message: "If that account exists, a reset link is on its way."})
}

// ResetPassword godoc
// @Summary      Consumir token de reset y fijar contraseña nueva
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path  string  true  "secreto recibido por email"
// @Param        body   body  dto.ResetPasswordRequest  true  "password, passwordConfirm"
// @Success      200    {object}  dto.TokenResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ResetPassword(c.Context(), c.Params("token"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidResetToken):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "INVALID_RESET_TOKEN", Message: "Token is invalid or has expired"})
		case errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrPasswordMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

// UpdateMyPassword godoc
// @Summary      Cambiar la propia contraseña (requiere la actual)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdatePasswordRequest  true  "passwordCurrent, password, passwordConfirm"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/users/updateMyPassword [patch]
func (h *AuthHandler) UpdateMyPassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdatePassword(c.Context(), CurrentUser(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWrongPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "WRONG_PASSWORD", Message: "Your current password is wrong."})
		case errors.Is(err, domain.ErrPasswordTooShort),
			errors.Is(err, domain.ErrPasswordMismatch),
			errors.Is(err, domain.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return internalError(c, err)
	}
	h.setSessionCookie(c, out.Token)
	return c.JSON(out)
}

// setSessionCookie deja el token también en la cookie jwt para clientes de
// navegador. HTTPOnly siempre; Secure solo en producción.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cookie.ExpirationDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
	})
}
