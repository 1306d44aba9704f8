// Package catalog loads the list of presentations the viewer and the asset
// host can open.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Find for an unknown presentation ID
var ErrNotFound = errors.New("presentation not found")

// Presentation is one catalog entry
type Presentation struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ImageDirectory string `json:"imageDirectory"`
	SlideCount     int    `json:"slideCount"`
	FileExtension  string `json:"fileExtension,omitempty"`
	PDFURL         string `json:"pdfUrl,omitempty"`
}

// Catalog is the on-disk catalog file
type Catalog struct {
	Presentations []Presentation `json:"presentations"`
}

// Default returns the built-in portfolio presentations
func Default() *Catalog {
	return &Catalog{Presentations: []Presentation{
		{
			ID:             "hurricane",
			Title:          "Hurricane Presentation",
			ImageDirectory: "/images/hurricane-presentation",
			SlideCount:     28,
			FileExtension:  "webp",
			PDFURL:         "/docs/Hurricane-Presentation.pdf",
		},
		{
			ID:             "hr-dashboard",
			Title:          "HR Dashboard Presentation",
			ImageDirectory: "/images/hr-dashboard-presentation",
			SlideCount:     16,
			FileExtension:  "webp",
			PDFURL:         "/docs/HR-Dashboard.pdf",
		},
		{
			ID:             "pet-dashboard",
			Title:          "Pet Analysis Dashboard Presentation",
			ImageDirectory: "/images/pet_dashboard_presentation",
			SlideCount:     16,
			FileExtension:  "webp",
			PDFURL:         "/docs/Pet-Dashboard-Presentation.pdf",
		},
	}}
}

// Load reads a catalog file. A missing file yields an empty catalog; entries
// with a zero slide count have their slides discovered on disk, with
// site-style directories resolved below root.
func Load(path, root string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: catalog %s not found, starting empty", path)
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	seen := make(map[string]bool)
	for i := range c.Presentations {
		p := &c.Presentations[i]
		if p.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate catalog id %q", p.ID)
		}
		seen[p.ID] = true

		if p.FileExtension == "" {
			p.FileExtension = "webp"
		}
		p.FileExtension = strings.TrimPrefix(p.FileExtension, ".")
		if p.SlideCount < 0 {
			log.Printf("Warning: %s: negative slideCount %d, treating as empty", p.ID, p.SlideCount)
			p.SlideCount = 0
		}
	}
	c.Discover(root)
	return &c, nil
}

// Discover counts the slides of every local entry whose slide count is
// still open
func (c *Catalog) Discover(root string) {
	for i := range c.Presentations {
		p := &c.Presentations[i]
		if p.SlideCount != 0 || IsRemote(p.ImageDirectory) {
			continue
		}
		n, err := CountSlides(LocalPath(p.ImageDirectory, root), p.FileExtension)
		if err != nil {
			log.Printf("Warning: %s: slide discovery failed: %v", p.ID, err)
		}
		p.SlideCount = n
	}
}

// Find returns the presentation with id
func (c *Catalog) Find(id string) (Presentation, error) {
	for _, p := range c.Presentations {
		if p.ID == id {
			return p, nil
		}
	}
	return Presentation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// LocalPath maps a site-style directory such as "/images/deck" below root.
// An existing absolute path, or any path without a root, is used as is.
func LocalPath(dir, root string) string {
	if root == "" {
		return filepath.FromSlash(dir)
	}
	if filepath.IsAbs(dir) {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(dir, "/")))
}

// IsRemote reports whether dir is an http(s) base URL
func IsRemote(dir string) bool {
	return strings.HasPrefix(dir, "http://") || strings.HasPrefix(dir, "https://")
}
