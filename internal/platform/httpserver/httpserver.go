package httpserver

import (
	"net/http"
	"time"
)

// Timeouts bound a single connection. WriteTimeout must outlast the
// per-request handler timeout so the error body still reaches the client.
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

// ForHandlerTimeout derives connection timeouts from the request budget the
// router enforces.
func ForHandlerTimeout(handler time.Duration) Timeouts {
	return Timeouts{
		ReadHeader: 5 * time.Second,
		Read:       10 * time.Second,
		Write:      handler + 5*time.Second,
		Idle:       2 * time.Minute,
	}
}

func New(addr string, handler http.Handler, t Timeouts) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: t.ReadHeader,
		ReadTimeout:       t.Read,
		WriteTimeout:      t.Write,
		IdleTimeout:       t.Idle,
	}
}
