package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmcasares/tienda-api/pkg/normalize"
)

func TestFold_QuitaTildesYBajaACaja(t *testing.T) {
	cases := map[string]string{
		"Pérez":            "perez",
		"  María José  ":   "maria jose",
		"ÑANDÚ":            "nandu", // NFD descompone la ñ y remueve la virgulilla
		"ORD-12345-07":     "ord-12345-07",
		"jose@ejemplo.com": "jose@ejemplo.com",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalize.Fold(in), "Fold(%q)", in)
	}
}

func TestSearchText_ConcatenaCampos(t *testing.T) {
	got := normalize.SearchText("ORD-00001-01", "Ramón Díaz", "ramon@mail.com")
	assert.Equal(t, "ord-00001-01 ramon diaz ramon@mail.com", got)
}
