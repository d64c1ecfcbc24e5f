package mapping

import (
	"strings"
	"unicode"

	"github.com/Chucho1991/pagosdigitales-sub000/internal/domain/model"
)

// NormalizeOperation turns a free-form provider name into the operation
// token used as a mapping-rule key: uppercase, non-alphanumerics stripped.
// An empty result maps to the DEFAULT sentinel.
func NormalizeOperation(providerName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(providerName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return model.OperationDefault
	}
	return b.String()
}

// NormalizeServiceKey lowercases and trims a ws key.
func NormalizeServiceKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
