package geocode

import (
	"regexp"
	"strings"
)

// ordinalRe matches ordinal suffixes split from their number ("12 th").
var ordinalRe = regexp.MustCompile(`(?i)(\d+)\s+(st|nd|rd|th)\b`)

// okcReplacer expands the local OKC shorthand in the forms it shows up in on
// the roster sheets.
var okcReplacer = strings.NewReplacer(
	", OKC,", ", Oklahoma City,",
	",OKC,", ", Oklahoma City,",
	" OKC,", " Oklahoma City,",
	" OKC ", " Oklahoma City ",
)

// Normalize cleans an address for geocoding and cache lookup: collapses
// whitespace, expands OKC to Oklahoma City, fixes spacing around commas, and
// rejoins ordinals split by a space ("12 th" becomes "12th"). Normalized
// addresses are the cache keys, so the same raw address always hits the same
// entry.
func Normalize(address string) string {
	address = strings.Join(strings.Fields(address), " ")
	address = okcReplacer.Replace(address)
	address = strings.ReplaceAll(address, " ,", ",")
	address = ordinalRe.ReplaceAllString(address, "$1$2")
	return address
}
