// Package server is the HTTP asset host publishing the presentation catalog,
// the environment URL table and the slide images.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"slideview/internal/catalog"
	"slideview/internal/slideshow"
)

// Config configures the asset host
type Config struct {
	Catalog *catalog.Catalog
	Root    string // directory served under /slides
	Env     catalog.Environment
}

// Server hosts the catalog and slide assets
type Server struct {
	cfg    Config
	router *gin.Engine
}

// PresentationDetail is a catalog entry with its resolved slide URLs
type PresentationDetail struct {
	catalog.Presentation
	Slides []string `json:"slides"`
}

// New builds the router
func New(cfg Config) *Server {
	if cfg.Catalog == nil {
		cfg.Catalog = &catalog.Catalog{}
	}
	if cfg.Env == "" {
		cfg.Env = catalog.Production
	}
	// Open slide counts are resolved against the served root, on a copy so
	// the caller's catalog is left alone.
	cat := &catalog.Catalog{Presentations: slices.Clone(cfg.Catalog.Presentations)}
	cat.Discover(cfg.Root)
	cfg.Catalog = cat

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	s := &Server{cfg: cfg, router: r}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/presentations", s.listPresentations)
	r.GET("/api/presentations/:id", s.getPresentation)
	r.GET("/api/config", s.getConfig)
	if cfg.Root != "" {
		r.Static("/slides", cfg.Root)
	}
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Asset host listening on %s (%s)", addr, s.cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) listPresentations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presentations": s.cfg.Catalog.Presentations})
}

func (s *Server) getPresentation(c *gin.Context) {
	p, err := s.cfg.Catalog.Find(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, PresentationDetail{Presentation: p, Slides: SlideURLs(p)})
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"environment": s.cfg.Env,
		"urls":        catalog.URLsFor(s.cfg.Env),
	})
}

// SlideURLs lists the URL of every slide of p. Local directories map under
// /slides; remote base URLs are used as-is.
func SlideURLs(p catalog.Presentation) []string {
	dir := p.ImageDirectory
	if !catalog.IsRemote(dir) {
		dir = "/slides/" + strings.TrimLeft(dir, "/")
	}
	set := slideshow.NewSlideSet(dir, p.SlideCount, p.FileExtension)
	urls := make([]string, set.Len())
	for i := range urls {
		urls[i] = set.Path(i)
	}
	return urls
}
