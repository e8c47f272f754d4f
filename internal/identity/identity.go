// Package identity holds the caller identity resolved from an access token.
// Everything below the HTTP layer receives a Principal explicitly and never
// looks at request or session state.
package identity

import "strconv"

// Principal is an authenticated caller.
type Principal struct {
	UserID      int64
	Username    string
	IsSuperuser bool
}

// ID renders the user id for logs and token subjects.
func (p Principal) ID() string {
	return strconv.FormatInt(p.UserID, 10)
}
