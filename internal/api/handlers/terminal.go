package handlers

import (
	"net/http"

	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/errors"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

// terminalID resolves the terminal of the request. On a malformed id the
// error response has been written and ok is false.
func terminalID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.TerminalID(r, service.DefaultTerminalID)
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Malformed terminal id")
		response.Error(w, errors.BadRequestError("Invalid "+middleware.TerminalHeader+" header"))
		return "", false
	}

	return id, true
}
