package main

import (
	"archive/zip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestPreloadIndices(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		direction NavigationDirection
		total     int
		max       int
		want      []int
	}{
		{"forward", 5, NavigationForward, 10, 3, []int{6, 7, 8}},
		{"forward stops at the end", 8, NavigationForward, 10, 4, []int{9}},
		{"backward", 2, NavigationBackward, 10, 4, []int{1, 0}},
		{"jump interleaves around current", 5, NavigationJump, 10, 4, []int{6, 4, 7, 3}},
		{"jump keeps at least one each way", 5, NavigationJump, 10, 1, []int{6, 4}},
		{"jump at the start", 0, NavigationJump, 10, 2, []int{1}},
		{"nothing to preload", 0, NavigationForward, 1, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preloadIndices(tt.current, tt.direction, tt.total, tt.max)
			if !slices.Equal(got, tt.want) {
				t.Errorf("preloadIndices(%d, %v, %d, %d) = %v, want %v",
					tt.current, tt.direction, tt.total, tt.max, got, tt.want)
			}
		})
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"https://cdn.example.com/decks/one/", "*main.httpSource"},
		{"http://localhost:8080/images", "*main.httpSource"},
		{"/decks/talk.zip", "*main.zipSource"},
		{"/decks/talk.CBR.rar", "*main.rarSource"},
		{"/decks/talk.7z", "*main.sevenZipSource"},
		{"/images/presentations/hurricane", "*main.dirSource"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			src := resolveSource(tt.dir, "", nil)
			if got := fmt.Sprintf("%T", src); got != tt.want {
				t.Errorf("resolveSource(%q) = %s, want %s", tt.dir, got, tt.want)
			}
		})
	}

	t.Run("remote base loses trailing slash", func(t *testing.T) {
		src := resolveSource("https://cdn.example.com/decks/one/", "", nil)
		if got := src.String(); got != "https://cdn.example.com/decks/one" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestResolveLocalPath(t *testing.T) {
	root := t.TempDir()
	existing := t.TempDir()

	tests := []struct {
		name string
		path string
		root string
		want string
	}{
		{"no root", "/images/deck", "", filepath.FromSlash("/images/deck")},
		{"site path below root", "/images/deck", root, filepath.Join(root, "images", "deck")},
		{"relative path below root", "deck", root, filepath.Join(root, "deck")},
		{"existing absolute path", existing, root, existing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveLocalPath(tt.path, tt.root); got != tt.want {
				t.Errorf("resolveLocalPath(%q, %q) = %q, want %q", tt.path, tt.root, got, tt.want)
			}
		})
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"slide1.webp": "one",
		"slide2.webp": "two",
		"slide4.webp": "four",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	src := &dirSource{dir: dir}

	t.Run("reads with lowercase fallback", func(t *testing.T) {
		data, err := src.ReadSlide(context.Background(), "Slide2.webp")
		if err != nil {
			t.Fatalf("ReadSlide() error = %v", err)
		}
		if string(data) != "two" {
			t.Errorf("ReadSlide() = %q, want %q", data, "two")
		}
	})

	t.Run("missing slide", func(t *testing.T) {
		if _, err := src.ReadSlide(context.Background(), "Slide9.webp"); err == nil {
			t.Error("expected error for a missing slide")
		}
	})

	t.Run("counts contiguous slides", func(t *testing.T) {
		n, err := src.CountSlides("webp")
		if err != nil {
			t.Fatalf("CountSlides() error = %v", err)
		}
		if n != 2 {
			t.Errorf("CountSlides() = %d, want 2", n)
		}
	})
}

func TestZipSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "deck.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, e := range []struct{ name, body string }{
		{"deck/slide1.png", "first"},
		{"deck/Slide2.png", "second"},
		{"deck/slide3.png", "third"},
		{"deck/notes.txt", "notes"},
	} {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	src := resolveSource(archive, "", nil)
	if _, ok := src.(*zipSource); !ok {
		t.Fatalf("resolveSource() = %T, want *zipSource", src)
	}

	t.Run("reads nested entry by base name", func(t *testing.T) {
		data, err := src.ReadSlide(context.Background(), "Slide2.png")
		if err != nil {
			t.Fatalf("ReadSlide() error = %v", err)
		}
		if string(data) != "second" {
			t.Errorf("ReadSlide() = %q, want %q", data, "second")
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		if _, err := src.ReadSlide(context.Background(), "Slide7.png"); err == nil {
			t.Error("expected error for a missing entry")
		}
	})

	t.Run("counts slides", func(t *testing.T) {
		n, err := src.CountSlides("png")
		if err != nil {
			t.Fatalf("CountSlides() error = %v", err)
		}
		if n != 3 {
			t.Errorf("CountSlides() = %d, want 3", n)
		}
	})
}

func TestHTTPSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/deck/Slide1.webp" {
			w.Write([]byte("remote"))
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	src := resolveSource(ts.URL+"/deck/", "", ts.Client())

	t.Run("fetches slide", func(t *testing.T) {
		data, err := src.ReadSlide(context.Background(), "Slide1.webp")
		if err != nil {
			t.Fatalf("ReadSlide() error = %v", err)
		}
		if string(data) != "remote" {
			t.Errorf("ReadSlide() = %q, want %q", data, "remote")
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := src.ReadSlide(context.Background(), "Slide2.webp"); err == nil {
			t.Error("expected error for 404 response")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := src.ReadSlide(ctx, "Slide1.webp"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})

	t.Run("cannot count", func(t *testing.T) {
		if _, err := src.CountSlides("webp"); err == nil {
			t.Error("expected remote count to fail")
		}
	})
}

func TestEntryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Slide1.webp", "slide1.webp"},
		{"deck/images/SLIDE2.PNG", "slide2.png"},
		{`deck\win\slide3.jpg`, "slide3.jpg"},
	}
	for _, tt := range tests {
		if got := entryName(tt.in); got != tt.want {
			t.Errorf("entryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
