package auth

// Claims is the claim set of one authentication attempt. It is built from the
// verified id token and userinfo and never stored.
type Claims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	DisplayName       string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

// Name returns the display name to store for new accounts.
func (c Claims) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}

	return c.PreferredUsername
}

// fill copies values of other into empty fields of c. Claims of another
// subject are ignored.
func (c Claims) fill(other Claims) Claims {
	if other.Subject != "" && other.Subject != c.Subject {
		return c
	}

	if c.Email == "" {
		c.Email = other.Email
	}

	if c.DisplayName == "" {
		c.DisplayName = other.DisplayName
	}

	if c.PreferredUsername == "" {
		c.PreferredUsername = other.PreferredUsername
	}

	return c
}
