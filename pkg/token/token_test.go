package token_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcasares/tienda-api/pkg/token"
)

func TestNewOrderNumber_Formato(t *testing.T) {
	now := time.Unix(1735689612, 0) // ...89612 -> ORD-89612-xx
	num := token.NewOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{5}-\d{2}$`), num,
		"el número de orden debe tener formato ORD-xxxxx-xx")
	assert.Contains(t, num, "ORD-89612-", "los 5 dígitos deben salir del timestamp")
}

func TestNewAccessToken_LongitudYUnicidad(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := token.NewAccessToken()
		require.NoError(t, err)
		assert.Len(t, tok, 48, "24 bytes de entropía = 48 chars hex")
		assert.False(t, seen[tok], "los tokens no deben repetirse")
		seen[tok] = true
	}
}
