package http

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer wraps handler in an http.Server whose request contexts are
// cancelled as soon as Shutdown starts, so long-lived event streams return
// and Shutdown can finish. There is no WriteTimeout because those streams
// stay open.
func NewServer(addr string, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}
