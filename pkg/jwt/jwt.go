// Package jwt emite y verifica los bearer tokens de la aplicación.
//
// El token es stateless: solo lleva el id del usuario (sub), emisión (iat) y
// expiración (exp). La invalidación por cambio de contraseña no se hace aquí,
// sino comparando iat contra passwordChangedAt en el middleware Protect.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores distinguidos de verificación. Ambos terminan en 401, pero el mensaje
// al cliente es distinto ("vuelve a iniciar sesión" vs "token expirado").
var (
	// ErrTokenExpired el token está bien firmado pero su exp ya pasó.
	ErrTokenExpired = errors.New("jwt: token expirado")
	// ErrTokenInvalid firma incorrecta o estructura malformada.
	ErrTokenInvalid = errors.New("jwt: token inválido")
)

// Claims son los claims mínimos del token: solo los registrados.
// El rol NO viaja en el token; se lee siempre del usuario resuelto en DB,
// así un cambio de rol aplica en la siguiente petición sin esperar al exp.
type Claims struct {
	jwt.RegisteredClaims
}

// Generate genera un token HS256 firmado para el usuario dado.
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración, y devuelve el userID y el instante de emisión.
// Retorna ErrTokenExpired si el exp ya pasó y ErrTokenInvalid en cualquier otro
// fallo (firma, estructura, método de firma inesperado).
func Parse(secret, tokenString string) (userID string, issuedAt time.Time, err error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, ErrTokenExpired
		}
		return "", time.Time{}, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	return claims.Subject, claims.IssuedAt.Time, nil
}
