// Package normalize pliega texto para búsquedas insensibles a tildes, típicas
// en nombres de clientes en español ("Pérez" debe matchear "perez").
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold devuelve s en minúsculas, sin marcas diacríticas y sin espacios
// sobrantes. Se aplica tanto al texto indexado como al término buscado.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// SearchText concatena y pliega los campos que participan de la búsqueda.
func SearchText(fields ...string) string {
	return Fold(strings.Join(fields, " "))
}
