// Package session holds the in-memory session state owned by a client and
// the versioned binary codec for its durable form.
package session

// Session is the authenticated state held by one client: bearer access
// token ("Bearer " prefix included), raw refresh token, and the account
// identity adopted from the first accounts result.
//
// Invariant: AccessToken and RefreshToken are both present or both absent.
// AccountNumber and AccountURL are populated only while authenticated.
// Mutation goes through SetTokens, SetAccount, and Clear so the invariant
// cannot be broken from call sites.
type Session struct {
	AccessToken   string
	RefreshToken  string
	AccountNumber string
	AccountURL    string
}

// Authenticated reports whether the session holds a token pair.
func (s *Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// SetTokens replaces both tokens atomically. Empty input clears both.
func (s *Session) SetTokens(access, refresh string) {
	if access == "" || refresh == "" {
		s.AccessToken = ""
		s.RefreshToken = ""
		return
	}
	s.AccessToken = access
	s.RefreshToken = refresh
}

// SetAccount records the account identity fetched after authentication.
func (s *Session) SetAccount(number, url string) {
	s.AccountNumber = number
	s.AccountURL = url
}

// Clear resets the session to the unauthenticated state.
func (s *Session) Clear() {
	*s = Session{}
}
