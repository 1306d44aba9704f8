package slideshow

import (
	"fmt"
	"strings"
)

const (
	// DefaultTitle is used when a presentation is opened without a title
	DefaultTitle = "Presentation"
	// DefaultExtension is the slide image extension used when none is given
	DefaultExtension = "webp"
)

// SlideSet maps slide indices to asset paths. It is immutable for the
// lifetime of one viewer session.
type SlideSet struct {
	directory string
	extension string
	count     int
}

// NewSlideSet creates a SlideSet. A negative count is treated as an empty set.
func NewSlideSet(directory string, count int, extension string) SlideSet {
	if count < 0 {
		count = 0
	}
	ext := strings.TrimPrefix(extension, ".")
	if ext == "" {
		ext = DefaultExtension
	}
	return SlideSet{
		directory: strings.TrimRight(directory, "/"),
		extension: ext,
		count:     count,
	}
}

// Len returns the number of slides
func (s SlideSet) Len() int {
	return s.count
}

// Directory returns the directory (or archive, or base URL) holding the slides
func (s SlideSet) Directory() string {
	return s.directory
}

// Extension returns the slide file extension without the leading dot
func (s SlideSet) Extension() string {
	return s.extension
}

// Contains reports whether idx is a valid slide index
func (s SlideSet) Contains(idx int) bool {
	return idx >= 0 && idx < s.count
}

// FileName returns the asset base name for the slide at idx, e.g. "Slide3.webp".
// No existence check is made.
func (s SlideSet) FileName(idx int) string {
	return fmt.Sprintf("Slide%d.%s", idx+1, s.extension)
}

// Path returns "{directory}/Slide{idx+1}.{extension}", or "" when idx is out of range.
func (s SlideSet) Path(idx int) string {
	if !s.Contains(idx) {
		return ""
	}
	return s.directory + "/" + s.FileName(idx)
}

// Clamp bounds idx to [0, Len()-1]. An empty set clamps everything to 0.
func (s SlideSet) Clamp(idx int) int {
	if s.count == 0 || idx < 0 {
		return 0
	}
	if idx > s.count-1 {
		return s.count - 1
	}
	return idx
}
