package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nwaples/rardecode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"slideview/internal/catalog"
	"slideview/internal/slideshow"
)

// fetchTimeout bounds a single remote slide download
const fetchTimeout = 15 * time.Second

// slideSource reads slide files by base name, e.g. "slide3.webp"
type slideSource interface {
	ReadSlide(ctx context.Context, name string) ([]byte, error)
	// CountSlides counts contiguous slides when the catalog leaves the count open
	CountSlides(ext string) (int, error)
	String() string
}

// resolveSource picks a source for an image directory. Remote URLs are
// fetched over HTTP, archives are read in place, and anything else is a
// directory resolved against root.
func resolveSource(dir, root string, client *http.Client) slideSource {
	if catalog.IsRemote(dir) {
		if client == nil {
			client = http.DefaultClient
		}
		return &httpSource{base: strings.TrimRight(dir, "/"), client: client}
	}

	local := resolveLocalPath(dir, root)
	switch strings.ToLower(filepath.Ext(local)) {
	case ".zip":
		return &zipSource{archive: local}
	case ".rar":
		return &rarSource{archive: local}
	case ".7z":
		return &sevenZipSource{archive: local}
	}
	return &dirSource{dir: local}
}

// resolveLocalPath maps site-style paths such as "/images/deck" below root
func resolveLocalPath(p, root string) string {
	return catalog.LocalPath(p, root)
}

type dirSource struct {
	dir string
}

// ReadSlide falls back to the lowercase name, which discovery also accepts
func (s *dirSource) ReadSlide(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		if lower := strings.ToLower(name); lower != name {
			return os.ReadFile(filepath.Join(s.dir, lower))
		}
	}
	return data, err
}

func (s *dirSource) CountSlides(ext string) (int, error) {
	return catalog.CountSlides(s.dir, ext)
}

func (s *dirSource) String() string { return s.dir }

type httpSource struct {
	base   string
	client *http.Client
}

func (s *httpSource) ReadSlide(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (s *httpSource) CountSlides(string) (int, error) {
	return 0, fmt.Errorf("cannot count slides at %s: slide count required for remote decks", s.base)
}

func (s *httpSource) String() string { return s.base }

// entryName normalizes archive entry names for matching by base name
func entryName(name string) string {
	return strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
}

type zipSource struct {
	archive string
}

func (s *zipSource) ReadSlide(_ context.Context, name string) ([]byte, error) {
	r, err := zip.OpenReader(s.archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	want := strings.ToLower(name)
	for _, f := range r.File {
		if f.FileInfo().IsDir() || entryName(f.Name) != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", name, s.archive)
}

func (s *zipSource) CountSlides(ext string) (int, error) {
	r, err := zip.OpenReader(s.archive)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	return catalog.CountNames(names, ext), nil
}

func (s *zipSource) String() string { return s.archive }

type rarSource struct {
	archive string
}

// walk visits every file entry until fn returns true
func (s *rarSource) walk(fn func(h *rardecode.FileHeader, r io.Reader) (bool, error)) error {
	f, err := os.Open(s.archive)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return err
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if header.IsDir {
			continue
		}
		done, err := fn(header, r)
		if done || err != nil {
			return err
		}
	}
}

func (s *rarSource) ReadSlide(_ context.Context, name string) ([]byte, error) {
	want := strings.ToLower(name)
	var data []byte
	err := s.walk(func(h *rardecode.FileHeader, r io.Reader) (bool, error) {
		if entryName(h.Name) != want {
			return false, nil
		}
		var err error
		data, err = io.ReadAll(r)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("entry %s not found in %s", name, s.archive)
	}
	return data, nil
}

func (s *rarSource) CountSlides(ext string) (int, error) {
	var names []string
	err := s.walk(func(h *rardecode.FileHeader, _ io.Reader) (bool, error) {
		names = append(names, h.Name)
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	return catalog.CountNames(names, ext), nil
}

func (s *rarSource) String() string { return s.archive }

type sevenZipSource struct {
	archive string
}

func (s *sevenZipSource) ReadSlide(_ context.Context, name string) ([]byte, error) {
	r, err := sevenzip.OpenReader(s.archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	want := strings.ToLower(name)
	for _, f := range r.File {
		if f.FileInfo().IsDir() || entryName(f.Name) != want {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", name, s.archive)
}

func (s *sevenZipSource) CountSlides(ext string) (int, error) {
	r, err := sevenzip.OpenReader(s.archive)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.Name)
		}
	}
	return catalog.CountNames(names, ext), nil
}

func (s *sevenZipSource) String() string { return s.archive }

func decodeSlide(data []byte, name string) (*ebiten.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", name, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// NavigationDirection represents the direction of navigation
type NavigationDirection int

const (
	NavigationForward NavigationDirection = iota
	NavigationBackward
	NavigationJump
)

// preloadIndices lists the slides to warm after landing on current
func preloadIndices(current int, direction NavigationDirection, total, max int) []int {
	var indices []int
	add := func(idx int) {
		if idx >= 0 && idx < total {
			indices = append(indices, idx)
		}
	}

	switch direction {
	case NavigationForward:
		for i := 1; i <= max; i++ {
			add(current + i)
		}
	case NavigationBackward:
		for i := 1; i <= max; i++ {
			add(current - i)
		}
	case NavigationJump:
		half := max / 2
		if half < 1 {
			half = 1
		}
		for i := 1; i <= half; i++ {
			add(current + i)
			add(current - i)
		}
	}
	return indices
}

// PreloadRequest represents a request to preload around a slide
type PreloadRequest struct {
	Index     int
	Direction NavigationDirection
}

// PreloadManager warms the slide cache on a background goroutine
type PreloadManager struct {
	requestChan  chan PreloadRequest
	ctx          context.Context
	cancel       context.CancelFunc
	imageManager *SlideImageManager
	maxPreload   int
	enabled      bool
	done         chan struct{}
}

// NewPreloadManager creates a new PreloadManager and starts its worker
func NewPreloadManager(imageManager *SlideImageManager, maxPreload int, enabled bool) *PreloadManager {
	ctx, cancel := context.WithCancel(context.Background())
	pm := &PreloadManager{
		requestChan:  make(chan PreloadRequest, 16),
		ctx:          ctx,
		cancel:       cancel,
		imageManager: imageManager,
		maxPreload:   maxPreload,
		enabled:      enabled,
		done:         make(chan struct{}),
	}
	go pm.worker()
	return pm
}

// StartPreload replaces any pending request with one for currentIdx
func (pm *PreloadManager) StartPreload(currentIdx int, direction NavigationDirection) {
	if !pm.enabled {
		return
	}

drain:
	for {
		select {
		case <-pm.requestChan:
		default:
			break drain
		}
	}

	select {
	case pm.requestChan <- PreloadRequest{Index: currentIdx, Direction: direction}:
	default:
		debugLog("Preload request channel full, skipping preload request")
	}
}

// Stop stops the worker and waits for it to exit
func (pm *PreloadManager) Stop() {
	pm.cancel()
	<-pm.done
}

func (pm *PreloadManager) worker() {
	defer close(pm.done)
	for {
		select {
		case <-pm.ctx.Done():
			return
		case req := <-pm.requestChan:
			total := pm.imageManager.Len()
			for _, idx := range preloadIndices(req.Index, req.Direction, total, pm.maxPreload) {
				if pm.ctx.Err() != nil {
					return
				}
				pm.imageManager.load(pm.ctx, idx)
			}
		}
	}
}

// SlideImageManager loads slide images for the open presentation and keeps
// recently used ones in an LRU cache keyed by slide path
type SlideImageManager struct {
	mu             sync.RWMutex
	slides         slideshow.SlideSet
	source         slideSource
	cache          *lru.Cache[string, *ebiten.Image]
	preloadManager *PreloadManager
}

// NewSlideImageManager creates a manager with the given cache and preload settings
func NewSlideImageManager(cacheSize, preloadCount int, preloadEnabled bool) *SlideImageManager {
	evict := func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	}
	cache, err := lru.NewWithEvict[string, *ebiten.Image](cacheSize, evict)
	if err != nil {
		log.Printf("Error: Failed to create LRU cache: %v", err)
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](16, evict)
	}

	m := &SlideImageManager{cache: cache}
	m.preloadManager = NewPreloadManager(m, preloadCount, preloadEnabled)
	return m
}

// SetSlides points the manager at a new deck. Cached images stay valid
// because keys are full slide paths.
func (m *SlideImageManager) SetSlides(slides slideshow.SlideSet, source slideSource) {
	m.mu.Lock()
	m.slides = slides
	m.source = source
	m.mu.Unlock()
	debugLog("SetSlides: %d slides from %s, cache preserved (%d items)", slides.Len(), source, m.cache.Len())
}

// Len returns the number of slides in the current deck
func (m *SlideImageManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slides.Len()
}

// GetImage returns slide idx, loading it on a cache miss. Load failures
// yield a placeholder image that is cached like any other.
func (m *SlideImageManager) GetImage(idx int) *ebiten.Image {
	return m.load(context.Background(), idx)
}

func (m *SlideImageManager) load(ctx context.Context, idx int) *ebiten.Image {
	m.mu.RLock()
	slides, source := m.slides, m.source
	m.mu.RUnlock()
	if source == nil || !slides.Contains(idx) {
		return nil
	}

	key := slides.Path(idx)
	if img, ok := m.cache.Get(key); ok {
		return img
	}

	name := slides.FileName(idx)
	data, err := source.ReadSlide(ctx, name)
	var img *ebiten.Image
	if err == nil {
		img, err = decodeSlide(data, name)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("Error: Failed to load slide [%d/%d] %s: %v", idx+1, slides.Len(), key, err)
		img = CreateErrorImage(400, 300, key, err.Error())
	}
	m.cache.Add(key, img)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	debugLog("Cache MISS: %s, loaded (cache: %d items, memory: %dMB)", key, m.cache.Len(), mem.Alloc/1024/1024)
	return img
}

// StartPreload warms slides around idx in the given direction
func (m *SlideImageManager) StartPreload(idx int, direction NavigationDirection) {
	m.preloadManager.StartPreload(idx, direction)
}

// Close stops preloading and releases cached images
func (m *SlideImageManager) Close() {
	m.preloadManager.Stop()
	m.cache.Purge()
}
