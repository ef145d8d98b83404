package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var imagePattern = regexp.MustCompile(`(?i)\.(jpe?g|png|webp|gif|svg)$`)

// IsImage reports whether name has a recognized image extension.
func IsImage(name string) bool {
	return imagePattern.MatchString(strings.TrimSpace(name))
}

// Filter keeps the entries with recognized image extensions, in order.
func Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" || !IsImage(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Parse decodes a manifest (a flat JSON array of strings) and filters it.
// A JSON null decodes to an empty manifest.
func Parse(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return Filter(raw), nil
}

// GenerateOptions tune Generate.
type GenerateOptions struct {
	// Prefix is joined in front of every entry, e.g. "img".
	Prefix string
	// Recursive includes images in subdirectories.
	Recursive bool
}

// Generate lists the images under dir, sorted, as slash-separated paths
// relative to dir with opts.Prefix prepended.
func Generate(dir string, opts GenerateOptions) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read image dir: %s is not a directory", dir)
	}

	pattern := "*"
	if opts.Recursive {
		pattern = "**/*"
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	images := make([]string, 0, len(matches))
	for _, m := range matches {
		if !IsImage(m) {
			continue
		}
		if opts.Prefix != "" {
			m = path.Join(strings.TrimSuffix(opts.Prefix, "/"), m)
		}
		images = append(images, m)
	}
	sort.Strings(images)
	return images, nil
}

// Write stores images as indented JSON at dest.
func Write(dest string, images []string) error {
	if images == nil {
		images = []string{}
	}
	data, err := json.MarshalIndent(images, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
