package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
)

// maxIdempotencyKeys bounds the replay cache. The oldest key is evicted
// first.
const maxIdempotencyKeys = 1024

type recorded struct {
	status int
	header http.Header
	body   []byte
	done   bool
}

// idempotency replays the stored response of a POST whose Idempotency-Key
// was already seen, so a duplicate submit does not place a second order.
// The key is reserved before the handler runs; a duplicate that arrives
// while the first is still being handled gets 409 and may retry.
type idempotency struct {
	mu    sync.Mutex
	seen  map[string]*recorded
	order []string
}

func newIdempotency() *idempotency {
	return &idempotency{seen: make(map[string]*recorded)}
}

func (c *idempotency) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(rest.HeaderIdempotencyKey)
		if r.Method != http.MethodPost || key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = r.URL.Path + "|" + key

		rec, prior, reserved := c.reserve(key)
		if !reserved {
			if !prior.done {
				respondError(w, r, fmt.Errorf("%w: request with this idempotency key is still in progress", domain.ErrConflict))
				return
			}
			for k, v := range prior.header {
				w.Header()[k] = v
			}
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(prior.status)
			_, _ = w.Write(prior.body)
			return
		}

		rw := &recorder{ResponseWriter: w, status: http.StatusOK}
		completed := false
		defer func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if !completed || rw.status >= 500 {
				// Let the client retry with the same key.
				if c.seen[key] == rec {
					delete(c.seen, key)
				}
				return
			}
			*rec = recorded{status: rw.status, header: w.Header().Clone(), body: rw.buf.Bytes(), done: true}
		}()
		next.ServeHTTP(rw, r)
		completed = true
	})
}

// reserve creates an in-flight entry for key and returns it with reserved
// set. If key is already known it returns a copy of the existing entry
// instead.
func (c *idempotency) reserve(key string) (rec *recorded, prior recorded, reserved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.seen[key]; ok {
		return nil, *e, false
	}
	rec = &recorded{}
	c.seen[key] = rec
	c.order = append(c.order, key)
	if len(c.order) > maxIdempotencyKeys {
		delete(c.seen, c.order[0])
		c.order = c.order[1:]
	}
	return rec, recorded{}, true
}

type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.buf.Write(p)
	return r.ResponseWriter.Write(p)
}
