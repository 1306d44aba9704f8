package catalog

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// CountSlides counts the contiguous run Slide1..SlideN of files with ext in
// dir. Gaps end the run; files after a gap are ignored.
func CountSlides(dir, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read slide directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return CountNames(names, ext), nil
}

// CountNames applies the CountSlides rule to a list of file names, such as
// the entries of an archive. Names may carry a directory part.
func CountNames(names []string, ext string) int {
	ext = "." + strings.ToLower(strings.TrimPrefix(ext, "."))
	var slides []string
	for _, name := range names {
		base := strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
		if _, ok := slideNumber(base, ext); ok {
			slides = append(slides, base)
		}
	}
	sort.Sort(natural.StringSlice(slides))

	count := 0
	for _, name := range slides {
		n, _ := slideNumber(name, ext)
		if n == count {
			continue
		}
		if n != count+1 {
			break
		}
		count++
	}
	return count
}

// slideNumber parses a lowercased "slideN.ext" into N
func slideNumber(name, ext string) (int, bool) {
	if !strings.HasPrefix(name, "slide") || !strings.HasSuffix(name, ext) {
		return 0, false
	}
	digits := name[len("slide") : len(name)-len(ext)]
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 || digits[0] == '0' {
		return 0, false
	}
	return n, true
}
