package remote

import (
	"net/http"

	"github.com/sony/gobreaker/v2"
)

// breakerTransport wraps a RoundTripper in a circuit breaker so a dead
// backend fails fast instead of tying up request handlers until the client
// timeout. Only transport-level failures trip the breaker; an HTTP error
// status still means the backend is up and answering.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

func newBreakerTransport(name string, next http.RoundTripper) *breakerTransport {
	settings := gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &breakerTransport{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.cb.Execute(func() (*http.Response, error) {
		return t.next.RoundTrip(req)
	})
}
