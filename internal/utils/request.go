package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

// ParseAndValidate decodes the JSON body into dest and validates it. On
// failure the error response has been written and false is returned.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {
	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
		return false
	}

	if err := ValidateStruct(validate, dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.ValidationError(w, validationErrs)
			return false
		}

		response.Error(w, appErrors.BadRequestError("Invalid input data"))
		return false
	}

	return true
}

// PathInt64 parses the named path value as a positive integer id.
func PathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.AddValidationError(name, "must be a positive integer")
	}

	return id, nil
}
