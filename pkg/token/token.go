// Package token genera los identificadores de cara al cliente: el número de
// orden legible y el access token opaco que habilita la consulta de una orden
// sin autenticación.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// accessTokenBytes bytes de entropía del access token (48 chars hex).
// El token funciona como capability: debe ser impredecible.
const accessTokenBytes = 24

// NewAccessToken genera un token opaco con crypto/rand.
func NewAccessToken() (string, error) {
	b := make([]byte, accessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewOrderNumber genera un número de orden legible con formato ORD-xxxxx-xx:
// los últimos 5 dígitos del timestamp más un sufijo aleatorio para evitar
// colisiones dentro del mismo segundo.
func NewOrderNumber(now time.Time) string {
	seq := now.Unix() % 100000
	n, err := rand.Int(rand.Reader, big.NewInt(100))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("ORD-%05d-%02d", seq, suffix)
}
