package auth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RecoveryLink is a parsed password-reset link.
type RecoveryLink struct {
	AccessToken  string
	RefreshToken string
	Type         string
	ExpiresIn    time.Duration
	Principal    *Principal
}

// ParseRecoveryFragment parses the fragment of a password-reset link, in the
// form access_token=...&refresh_token=...&type=recovery&expires_in=3600. A
// leading '#' or a full URL are accepted. The access token is verified and
// links of any other type are rejected.
func (v *Verifier) ParseRecoveryFragment(fragment string) (*RecoveryLink, error) {
	if i := strings.IndexByte(fragment, '#'); i >= 0 {
		fragment = fragment[i+1:]
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recovery fragment: %w", err)
	}

	link := &RecoveryLink{
		AccessToken:  values.Get("access_token"),
		RefreshToken: values.Get("refresh_token"),
		Type:         values.Get("type"),
	}
	if link.Type != "recovery" {
		return nil, ErrNotRecovery
	}
	if link.AccessToken == "" {
		return nil, ErrInvalidToken
	}

	if raw := values.Get("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid expires_in %q", raw)
		}
		link.ExpiresIn = time.Duration(seconds) * time.Second
	}

	principal, err := v.Verify(link.AccessToken)
	if err != nil {
		return nil, err
	}
	link.Principal = principal

	return link, nil
}
