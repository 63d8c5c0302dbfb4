// Package server puts the browse and admin controllers behind one mux
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"go.senan.xyz/musicarchive/browse"
	"go.senan.xyz/musicarchive/handlerutil"
	"go.senan.xyz/musicarchive/server/assets"
	"go.senan.xyz/musicarchive/server/ctrladmin"
	"go.senan.xyz/musicarchive/server/ctrlbase"
	"go.senan.xyz/musicarchive/server/ctrlbrowse"
	"go.senan.xyz/musicarchive/submit"
)

type Options struct {
	ListenAddr  string
	ProxyPrefix string
	HTTPLog     bool
	Sessions    sessions.Store
	Catalog     browse.Source
	Desks       *submit.Registry
}

type Server struct {
	*http.Server
}

func New(opts Options) (*Server, error) {
	ctrlBase, err := ctrlbase.New(opts.ProxyPrefix, opts.Sessions)
	if err != nil {
		return nil, fmt.Errorf("create base controller: %w", err)
	}
	ctrlBrowse := ctrlbrowse.New(ctrlBase, opts.Catalog)
	ctrlAdmin := ctrladmin.New(ctrlBase, opts.Desks)

	staticFS, err := fs.Sub(assets.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /ping", handlerutil.Message("OK"))
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
	ctrlbrowse.AddRoutes(ctrlBrowse, mux)
	ctrladmin.AddRoutes(ctrlAdmin, mux)
	mux.Handle("/", ctrlBase.WithSession(ctrlBase.H(ctrlBase.ServeNotFound)))

	handler := handlerutil.Chain(
		handlerutil.If(opts.HTTPLog, handlerutil.Log),
		handlerutil.Recover,
		handlerutil.BasicCORS,
	)(mux)

	return &Server{
		Server: &http.Server{
			Addr:              opts.ListenAddr,
			Handler:           handler,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      80 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("http server stopped")
	return nil
}
