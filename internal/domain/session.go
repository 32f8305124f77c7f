package domain

// Session identifies the acting user for a single workflow call. It is built
// by the transport layer per request and passed explicitly; there is no
// ambient current-user lookup. Token is an opaque bearer credential forwarded
// to the remote API verbatim, never inspected or refreshed here.
type Session struct {
	UserID string
	Token  string
}

// Authenticated reports whether the session carries any user reference.
func (s Session) Authenticated() bool {
	return s.UserID != "" || s.Token != ""
}
