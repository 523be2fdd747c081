// Package ingest turns uploaded statement files into the plain text blob the
// fee detectors read.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/feeaudit/internal/model"
)

var (
	// ErrUnsupported is returned for file types no extractor handles.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNoText is returned when a file yields no text at all.
	ErrNoText = errors.New("no text could be extracted")
	// ErrEncoding is returned when bytes cannot be decoded as text.
	ErrEncoding = errors.New("unreadable text encoding")
)

// Extractor converts one kind of statement file into text.
type Extractor interface {
	Extract(r io.Reader) (string, error)
	Format() string
}

// Registry holds extractors keyed by file extension.
type Registry struct {
	extractors map[string]Extractor
}

// FileInfo describes a statement file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register adds an extractor. Panics on duplicate format.
func (r *Registry) Register(e Extractor) {
	key := strings.ToLower(e.Format())
	if _, ok := r.extractors[key]; ok {
		panic("duplicate extractor format: " + key)
	}
	r.extractors[key] = e
}

// Get returns the extractor for format, or nil.
func (r *Registry) Get(format string) Extractor {
	return r.extractors[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&PDFExtractor{})
	r.Register(&CSVExtractor{})
	r.Register(&TextExtractor{})
	return r
}

// Read extracts the statement from r, choosing the extractor by name's extension.
func (r *Registry) Read(name string, src io.Reader) (*model.Statement, error) {
	ext := filepath.Ext(name)
	e := r.Get(ext)
	if e == nil {
		return nil, fmt.Errorf("%s: %w %q", name, ErrUnsupported, ext)
	}
	text, err := e.Extract(src)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extracting %s: %w", name, ErrNoText)
	}
	return &model.Statement{Source: name, Text: text}, nil
}

// ReadFile opens path and extracts its statement.
func (r *Registry) ReadFile(path string) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return r.Read(filepath.Base(path), f)
}

// Scan returns the files in dir that some extractor supports, sorted by name.
// A missing directory yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statement dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || r.Get(filepath.Ext(e.Name())) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
