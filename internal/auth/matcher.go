package auth

// Matches reports whether the subject or the email of claims is listed in
// identifiers. The comparison is exact and case-sensitive, an empty list or
// empty claim value never matches.
func Matches(identifiers []string, claims Claims) bool {
	for _, id := range identifiers {
		if id == "" {
			continue
		}

		if id == claims.Subject || id == claims.Email {
			return true
		}
	}

	return false
}
