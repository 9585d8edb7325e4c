package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Vida del secreto de reset de contraseña.
const resetTokenTTL = 10 * time.Minute

// newResetToken genera el secreto de reset (32 bytes aleatorios en hex) y su
// digest sha256. El secreto viaja solo en el email; en DB se guarda el digest.
func newResetToken() (secret, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generando token de reset: %w", err)
	}
	secret = hex.EncodeToString(buf)
	return secret, hashResetToken(secret), nil
}

// hashResetToken calcula el digest sha256 (hex) de un secreto de reset.
func hashResetToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
