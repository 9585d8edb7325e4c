package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/pkg/jwt"
)

// LocalUser key del usuario autenticado en c.Locals.
const LocalUser = "current_user"

// CookieName nombre de la cookie de sesión.
const CookieName = "jwt"

// UserResolver resuelve la identidad del token contra el estado actual de la
// cuenta. Solo devuelve usuarios activos.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// Protect exige un token válido: lo verifica, resuelve el usuario en DB y
// rechaza tokens emitidos antes del último cambio de contraseña. El token se
// toma del header Authorization (Bearer) o, en su defecto, de la cookie jwt.
func Protect(jwtSecret string, resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, status, errResp := authenticate(c, jwtSecret, resolver)
		if errResp != nil {
			return c.Status(status).JSON(*errResp)
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// IsLoggedIn intenta la misma resolución que Protect pero nunca rechaza:
// si el token falta o no resuelve, la petición sigue como anónima. Lo usan
// las rutas públicas que personalizan la respuesta según el viewer (y
// cualquier capa de vistas que se monte encima).
func IsLoggedIn(jwtSecret string, resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, _, errResp := authenticate(c, jwtSecret, resolver); errResp == nil {
			c.Locals(LocalUser, user)
		}
		return c.Next()
	}
}

// RequireRole autoriza por rol al usuario ya resuelto por Protect.
// Llegar aquí sin identidad es un error de cableado de rutas, no del cliente.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			log.Error().Str("path", c.Path()).Msg("RequireRole sin usuario resuelto: falta Protect en la cadena")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code: "INTERNAL", Message: "internal server error"})
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "You do not have permission to perform this action"})
	}
}

// CurrentUser devuelve el usuario autenticado del contexto, o nil si la
// petición es anónima.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

func authenticate(c *fiber.Ctx, jwtSecret string, resolver UserResolver) (*entity.User, int, *dto.ErrorResponse) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "UNAUTHENTICATED",
			Message: "You are not logged in! Please log in to get access."}
	}

	userID, issuedAt, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "TOKEN_EXPIRED",
				Message: "Your token has expired! Please log in again."}
		}
		return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "INVALID_TOKEN",
			Message: "Invalid token. Please log in again!"}
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "INVALID_TOKEN",
			Message: "Invalid token. Please log in again!"}
	}

	// La identidad se resuelve en cada petición: cuenta borrada o desactivada
	// invalida el token aunque su firma siga siendo válida
	user, err := resolver.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "UNAUTHENTICATED",
				Message: "The user belonging to this token does no longer exist."}
		}
		// Store caído no es un problema de credenciales: fallo interno
		log.Error().Err(err).Msg("resolviendo usuario del token")
		return nil, fiber.StatusInternalServerError, &dto.ErrorResponse{Code: "INTERNAL",
			Message: "internal server error"}
	}

	if user.ChangedPasswordAfter(issuedAt) {
		return nil, fiber.StatusUnauthorized, &dto.ErrorResponse{Code: "UNAUTHENTICATED",
			Message: "User recently changed password! Please log in again."}
	}
	return user, 0, nil
}

// extractToken prefiere el header Authorization; la cookie jwt es el fallback
// para clientes de navegador.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(CookieName)
}
