package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
)

// RequireQueryString extracts a mandatory query parameter.
func RequireQueryString(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
