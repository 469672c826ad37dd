package questiongen

import "strings"

// PlaceholderCredential is the value shipped in sample configuration files.
const PlaceholderCredential = "YOUR_API_KEY_HERE"

// CheckCredential reports whether key can be used for a request:
// ErrMissingCredential when it is blank, ErrInvalidCredential when it is
// the placeholder, nil otherwise.
func CheckCredential(key string) error {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return ErrMissingCredential
	case key == PlaceholderCredential:
		return ErrInvalidCredential
	default:
		return nil
	}
}
