package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

var validate = validator.New()

// maxBody bounds request bodies.
const maxBody = 64 << 10

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("httpapi: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("httpapi: %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug("httpapi: %s %s -> %d: %v", r.Method, r.URL.Path, status, err)
	}
	respondJSON(w, status, rest.ErrorResponse{Error: err.Error(), Code: code})
}

// decodeRequest reads a JSON body into v and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidInput, err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", domain.ErrInvalidInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
