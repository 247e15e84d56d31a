package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// imageExts are probed, in order, when looking for a sidecar image.
var imageExts = []string{".png", ".jpg", ".jpeg", ".gif"}

// Document is one loaded analysis result and the image it describes.
type Document struct {
	// Key identifies the image across reloads. It is the image path when
	// known and the source path otherwise.
	Key       string
	Path      string
	ImagePath string
	Result    Result
}

// Name returns a short display name for the document.
func (d Document) Name() string {
	if d.ImagePath != "" {
		return filepath.Base(d.ImagePath)
	}
	return filepath.Base(d.Path)
}

// envelope is the wrapper form that names the image next to the result.
type envelope struct {
	Image  string           `json:"image"`
	Result *json.RawMessage `json:"result"`
}

// Load reads a JSON or hOCR file. Relative image paths resolve against the
// directory of the file; without an explicit image a sidecar with the same
// base name is used when present.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc := Document{Path: path}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		image, result, err := decodeFile(data)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", path, err)
		}
		doc.ImagePath = image
		doc.Result = result
	case ".hocr", ".html", ".htm", ".xhtml":
		page, err := ParseHOCR(data)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", path, err)
		}
		doc.ImagePath = page.Image
		doc.Result = page.Result
	default:
		return Document{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	dir := filepath.Dir(path)
	if doc.ImagePath != "" && !filepath.IsAbs(doc.ImagePath) {
		doc.ImagePath = filepath.Join(dir, doc.ImagePath)
	}
	if doc.ImagePath == "" {
		doc.ImagePath = findSidecar(path)
	}

	doc.Key = doc.ImagePath
	if doc.Key == "" {
		doc.Key = path
	}
	if abs, err := filepath.Abs(doc.Key); err == nil {
		doc.Key = abs
	}

	return doc, nil
}

func decodeFile(data []byte) (string, Result, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", Result{}, fmt.Errorf("decode analysis result: %w", err)
	}

	if env.Result != nil && !bytes.Equal(*env.Result, []byte("null")) {
		r, err := Decode(*env.Result)
		return env.Image, r, err
	}

	r, err := Decode(data)
	return "", r, err
}

func findSidecar(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range imageExts {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Discover expands the arguments into input files. Arguments containing glob
// metacharacters are matched with doublestar (so "**" crosses directories);
// plain arguments are kept as given and must exist. Order is preserved and
// duplicates removed.
func Discover(args []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)

	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, arg := range args {
		if !isPattern(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", arg, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("input %s is a directory; use a pattern such as %s", arg, filepath.Join(arg, "**", "*.json"))
			}
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if isSupported(m) {
				add(m)
			}
		}
	}

	return out, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func isSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".hocr", ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
