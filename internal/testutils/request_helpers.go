package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

// CreateTestRequest builds a request carrying a discard logger, the given
// path values and, when terminalID is non-empty, the terminal header.
func CreateTestRequest(method, target string, body io.Reader, terminalID string, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	if terminalID != "" {
		req.Header.Set(middleware.TerminalHeader, terminalID)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

// DecodeResponse unmarshals the envelope and, when dest is non-nil, its data.
func DecodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dest any) *response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	if dest != nil && resp.Data != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, dest))
	}

	return &resp
}
