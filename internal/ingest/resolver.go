package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"appshelf/internal/media"
)

var firstNumber = regexp.MustCompile(`\d+`)

// ListScreenshots returns the staged media files in dir in display order.
// The icon (any file starting with "logo") is excluded. A missing directory
// yields an empty list so the caller can fall back to remote screenshots.
func ListScreenshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !media.IsMedia(name) || strings.HasPrefix(name, "logo") {
			continue
		}
		names = append(names, name)
	}

	NaturalSort(names)
	return names, nil
}

// NaturalSort orders names by the first integer embedded in each name.
// Names without a number sort as 0; ties keep their existing order.
func NaturalSort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return leadingNumber(names[i]) < leadingNumber(names[j])
	})
}

func leadingNumber(name string) uint64 {
	m := firstNumber.FindString(name)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseUint(m, 10, 64)
	if err != nil {
		return ^uint64(0)
	}
	return n
}
