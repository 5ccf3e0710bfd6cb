// Package urlutil derives member-facing URLs: public profile pages and
// profile picture locations.
package urlutil

import "strings"

// profileKeyPlaceholder is the single substitution slot in a profile URL
// template, e.g. "http://localhost:8080/members/{profileKey}".
const profileKeyPlaceholder = "{profileKey}"

// ProfileURL substitutes the member's public key (username or numeric ID)
// into the configured profile URL template
func ProfileURL(template, profileKey string) string {
	return strings.ReplaceAll(template, profileKeyPlaceholder, profileKey)
}
