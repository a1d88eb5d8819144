package domain

import (
	"slices"
	"strings"

	"github.com/biter777/countries"
)

// UnknownISO3 is returned by ResolveISO3 when a code has no registry entry.
const UnknownISO3 = ""

// ResolveISO3 maps an ISO 3166-1 alpha-2 code to its alpha-3 code.
// Anything that is not a registered two-letter code yields UnknownISO3.
func ResolveISO3(iso2 string) string {
	code := strings.ToUpper(strings.TrimSpace(iso2))
	if len(code) != 2 {
		return UnknownISO3
	}

	// ByName also matches alpha-3 codes and English names, so confirm the
	// hit really is the alpha-2 we asked for.
	c := countries.ByName(code)
	if c == countries.Unknown || c.Alpha2() != code {
		return UnknownISO3
	}
	iso3 := c.Alpha3()
	if len(iso3) != 3 {
		return UnknownISO3
	}
	return iso3
}

// CountryName returns the registry's English name for an alpha-3 code, or
// the empty string when the code is unknown.
func CountryName(iso3 string) string {
	code := strings.ToUpper(strings.TrimSpace(iso3))
	if len(code) != 3 {
		return ""
	}
	c := countries.ByName(code)
	if c == countries.Unknown || c.Alpha3() != code {
		return ""
	}
	return c.String()
}

// ResolveCodes returns a copy of records with ISO3 filled in, together with
// the sorted distinct alpha-2 codes that did not resolve. The input slice is
// not modified.
func ResolveCodes(records []DailyRegionRecord) ([]DailyRegionRecord, []string) {
	out := make([]DailyRegionRecord, len(records))
	cache := make(map[string]string)
	missing := make(map[string]struct{})

	for i, r := range records {
		iso3, ok := cache[r.CountryCode]
		if !ok {
			iso3 = ResolveISO3(r.CountryCode)
			cache[r.CountryCode] = iso3
		}
		r.ISO3 = iso3
		if iso3 == UnknownISO3 {
			missing[r.CountryCode] = struct{}{}
		}
		out[i] = r
	}

	unresolved := make([]string, 0, len(missing))
	for code := range missing {
		unresolved = append(unresolved, code)
	}
	slices.Sort(unresolved)
	return out, unresolved
}
