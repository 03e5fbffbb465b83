package middleware

import (
	"net/http"
	"regexp"
)

// TerminalHeader names the till a request acts on.
const TerminalHeader = "X-Terminal-ID"

var terminalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// TerminalID returns the terminal named by the request header, or fallback
// when the header is absent. ok is false for a malformed id.
func TerminalID(r *http.Request, fallback string) (id string, ok bool) {
	id = r.Header.Get(TerminalHeader)
	if id == "" {
		return fallback, true
	}

	return id, terminalIDPattern.MatchString(id)
}
