package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
)

// prettyElements is built once; cases.Caser values are not safe to share.
var prettyElements = func() map[witchfire.Element]string {
	caser := cases.Title(language.Und)
	out := make(map[witchfire.Element]string, len(witchfire.Elements))
	for _, el := range witchfire.Elements {
		out[el] = caser.String(string(el))
	}
	return out
}()

// PrettyElement returns the capitalised element name used in unlocked keys
// (FIRE -> Fire)
func PrettyElement(el witchfire.Element) string {
	if pretty, ok := prettyElements[el]; ok {
		return pretty
	}
	return cases.Title(language.Und).String(string(el))
}

// ParseElement matches an element token in any casing
func ParseElement(token string) (witchfire.Element, bool) {
	for _, el := range witchfire.Elements {
		if strings.EqualFold(token, string(el)) {
			return el, true
		}
	}
	return "", false
}
