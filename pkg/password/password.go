// Package password encapsula el hashing de contraseñas con bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost factor de trabajo por defecto si la configuración no define uno.
const DefaultCost = 12

// Hash genera el hash bcrypt de la contraseña en texto plano.
// El costo es configurable para poder bajar el factor en tests.
func Hash(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara la contraseña en texto plano contra el hash almacenado.
// Retorna false tanto para mismatch como para hash malformado: el caller
// no distingue entre ambos casos.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
