package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 4 << 10

// errorForStatus maps an HTTP status onto a domain sentinel.
func errorForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return domain.ErrUnauthorized
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return domain.ErrBackendUnavailable
	}
}

// responseError builds an error from a non-2xx response, keeping the
// server's message when the body carries one.
func responseError(resp *http.Response) error {
	sentinel := errorForStatus(resp.StatusCode)

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, er.Error)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) < 200 {
		return fmt.Errorf("%w: %s: %s", sentinel, resp.Status, msg)
	}
	return fmt.Errorf("%w: %s", sentinel, resp.Status)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Zero means absent or unparsable.
func retryAfter(h string, now time.Time) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(h); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
