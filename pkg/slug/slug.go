// Package slug строит URL-slug из произвольного заголовка
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback используется, когда после нормализации ничего не осталось
const Fallback = "agenda"

// Make приводит заголовок к виду "corte-de-cabelo":
// NFD-нормализация, удаление диакритики, нижний регистр,
// всё кроме [a-z0-9] заменяется на "-", повторы и крайние "-" убираются.
func Make(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, title)
	if err != nil {
		stripped = title
	}

	var b strings.Builder
	b.Grow(len(stripped))
	dash := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	result := strings.TrimRight(b.String(), "-")
	if result == "" {
		return Fallback
	}
	return result
}
