package server

import (
	"context"
	"net"
	"net/http"

	"github.com/ansel1/merry"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/tommy351/reqecho/pkg/config"
	"github.com/tommy351/reqecho/pkg/echo"
)

type Server struct {
	Config *config.Config
}

// Handler routes every request to the echo handler. Requests carry a copy of
// logger in their context.
func (s *Server) Handler(logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	// Keep paths such as "//a" or "/a/../b" as sent instead of redirecting.
	router.SkipClean(true)
	handler := &echo.Handler{
		MaxBodySize: s.Config.Server.MaxBodySize,
	}

	router.Use(RequestID)
	router.PathPrefix("/").Handler(handler)

	// Targets outside the path space, such as "OPTIONS *", are echoed too.
	// This needs DisableGeneralOptionsHandler on the http.Server.
	router.NotFoundHandler = RequestID(handler)

	return hlog.NewHandler(logger)(router)
}

func (s *Server) httpServer(logger zerolog.Logger) *http.Server {
	conf := &s.Config.Server

	return &http.Server{
		Handler:      s.Handler(logger),
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		IdleTimeout:  conf.IdleTimeout,

		// Let "OPTIONS *" through to the router instead of answering it with
		// an empty body.
		DisableGeneralOptionsHandler: true,
	}
}

// Serve listens on the configured address until ctx is done. The logger is
// taken from ctx.
func (s *Server) Serve(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	conf := &s.Config.Server
	ln, err := net.Listen("tcp", conf.Address())

	if err != nil {
		return merry.Wrap(err)
	}

	server := s.httpServer(*logger)
	errCh := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("Starting server")
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return merry.Wrap(err)

	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return merry.Wrap(err)
	}

	return nil
}
