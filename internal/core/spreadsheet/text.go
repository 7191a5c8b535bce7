package spreadsheet

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9 ]+`)

// normalizeText remove acentos, passa para minúsculas e compacta espaços.
// Pontuação é preservada (o parser de abas depende dos separadores).
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, "\u00a0", " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// NormalizeKey é como normalizeText, mas troca qualquer símbolo por espaço.
// Usado para comparar cabeçalhos ("Mês/Ano" -> "mes ano").
func NormalizeKey(str string) string {
	result := nonAlphanumericRegex.ReplaceAllString(normalizeText(str), " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// lettersOnly mantém apenas letras a-z de um texto já normalizado.
func lettersOnly(str string) string {
	var b strings.Builder
	b.Grow(len(str))
	for _, r := range str {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
