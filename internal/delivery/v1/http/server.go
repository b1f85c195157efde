package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
)

// headerTimeoutFloor используется как таймаут чтения заголовков, если ReadTimeout не задан.
const headerTimeoutFloor = 5 * time.Second

type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	headerTimeout := cfg.ReadTimeout
	if headerTimeout == 0 {
		headerTimeout = headerTimeoutFloor
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: headerTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Serve обслуживает уже открытый listener.
func (s *Server) Serve(lis net.Listener) error {
	return s.httpServer.Serve(lis)
}

// Stop дожидается завершения обработки текущих запросов. Websocket соединения
// Shutdown не отслеживает, они закрываются вместе с процессом.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
