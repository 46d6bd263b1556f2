// internal/core/domain/text.go
package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTitle collapses whitespace and title-cases s using pt-BR rules.
// A cases.Caser keeps state, so one is built per call.
func NormalizeTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.BrazilianPortuguese).String(s)
}
