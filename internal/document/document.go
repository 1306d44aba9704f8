// Package document implements the download and print actions for the PDF
// attached to a presentation.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoDocument is returned when the presentation has no PDF attached
var ErrNoDocument = errors.New("no document attached")

const fallbackFilename = "presentation.pdf"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	pathSeparator = regexp.MustCompile(`[/\\]`)
)

// DownloadFilename derives the saved file name from a presentation title:
// whitespace runs and path separators become hyphens and ".pdf" is appended.
func DownloadFilename(title string) string {
	if title == "" {
		return fallbackFilename
	}
	name := whitespaceRun.ReplaceAllString(title, "-")
	return pathSeparator.ReplaceAllString(name, "-") + ".pdf"
}

// Opener hands files and URLs to the desktop environment
type Opener interface {
	Open(ctx context.Context, target string) error
	Print(ctx context.Context, path string) error
}

// Actions are the document operations for one presentation
type Actions struct {
	PDFURL      string
	Title       string
	DownloadDir string // default os.TempDir()

	Client *http.Client // default http.DefaultClient
	Opener Opener       // default SystemOpener
}

// Available reports whether download and print are enabled
func (a *Actions) Available() bool {
	return a.PDFURL != ""
}

// Download copies the PDF into DownloadDir and returns the written path
func (a *Actions) Download(ctx context.Context) (string, error) {
	if !a.Available() {
		return "", ErrNoDocument
	}

	dir := a.DownloadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dst := filepath.Join(dir, DownloadFilename(a.Title))
	if err := a.fetch(ctx, dst); err != nil {
		return "", err
	}
	log.Printf("Downloaded %s to %s", a.PDFURL, dst)
	return dst, nil
}

// Print submits the PDF to the system print command. When fetching or
// printing fails the document is opened instead so the user can print it
// from the viewer application.
func (a *Actions) Print(ctx context.Context) error {
	if !a.Available() {
		return ErrNoDocument
	}

	tmp, err := os.CreateTemp("", "slideview-*.pdf")
	if err != nil {
		return a.fallbackOpen(ctx, fmt.Errorf("failed to create temp file: %w", err))
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	if err := a.fetch(ctx, path); err != nil {
		return a.fallbackOpen(ctx, err)
	}
	if err := a.opener().Print(ctx, path); err != nil {
		return a.fallbackOpen(ctx, err)
	}
	return nil
}

func (a *Actions) fallbackOpen(ctx context.Context, cause error) error {
	log.Printf("Warning: print failed, opening document instead: %v", cause)
	if err := a.opener().Open(ctx, a.PDFURL); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	return nil
}

func (a *Actions) opener() Opener {
	if a.Opener != nil {
		return a.Opener
	}
	return SystemOpener{}
}

func (a *Actions) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

// fetch writes the PDF to dst, reading local paths directly and GETting
// http(s) URLs.
func (a *Actions) fetch(ctx context.Context, dst string) error {
	src, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return out.Close()
}

func (a *Actions) open(ctx context.Context) (io.ReadCloser, error) {
	if !isRemote(a.PDFURL) {
		f, err := os.Open(strings.TrimPrefix(a.PDFURL, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to open document: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.PDFURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch document: %s", resp.Status)
	}
	return resp.Body, nil
}

func isRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
