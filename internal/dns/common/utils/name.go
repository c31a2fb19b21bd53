package utils

import "strings"

// CanonicalDNSName returns a DNS name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dot because it doesn't add any runtime benefit, only legacy baggage.
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	// remove all trailing dots
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// SplitName splits a query name into the apex domain used as the store key
// and the label relative to it. The apex is the last two dot-separated
// labels; everything before them becomes the relative label, or "@" when
// the name is the apex itself.
//
// Names are canonicalized first, so trailing-dot FQDNs split the same as
// their bare forms. A single-label name is treated as its own apex with
// label "@".
func SplitName(name string) (apex string, label string) {
	name = CanonicalDNSName(name)
	parts := strings.Split(name, ".")
	if len(parts) <= 2 {
		return name, "@"
	}
	apex = strings.Join(parts[len(parts)-2:], ".")
	label = strings.Join(parts[:len(parts)-2], ".")
	return apex, label
}
