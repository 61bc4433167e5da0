// Package httpapi exposes the coordinator and the synchronous stages over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/logger"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
	"github.com/nguyentantai21042004/subtitle-flow/internal/summarizer"
)

const maxBodyBytes = 1 << 20

// Deps are the services behind the routes. Summarizer may be nil, in which
// case /summarize answers 503.
type Deps struct {
	Coordinator coordinator.Coordinator
	Processor   processor.Processor
	Summarizer  summarizer.Summarizer
	Logger      logger.Logger
}

type Server struct {
	coord  coordinator.Coordinator
	proc   processor.Processor
	summ   summarizer.Summarizer
	logger logger.Logger

	handler http.Handler
}

func New(d Deps) *Server {
	s := &Server{
		coord:  d.Coordinator,
		proc:   d.Processor,
		summ:   d.Summarizer,
		logger: d.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /poll", s.handlePoll)
	mux.HandleFunc("POST /extract-audio", s.handleExtractAudio)
	mux.HandleFunc("POST /burn-in", s.handleBurnIn)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	// Any other path polls.
	mux.HandleFunc("/", s.handlePoll)

	s.handler = s.withRequestID(mux)
	return s
}

// Handler returns the routed handler with request-id middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info(ctx, "API server listening on %s", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}
