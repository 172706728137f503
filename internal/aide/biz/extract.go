package biz

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/oklog/ulid/v2"
)

// Ingestor stores uploaded files under the docs directory and extracts
// their text content.
type Ingestor struct {
	docsDir string
}

// NewIngestor creates an ingestor, creating the docs directory if needed.
func NewIngestor(docsDir string) (*Ingestor, error) {
	if docsDir == "" {
		return nil, fmt.Errorf("docs dir is required")
	}
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create docs dir: %w", err)
	}
	return &Ingestor{docsDir: docsDir}, nil
}

// Supported reports whether the file type can be ingested.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

// Save writes the upload to disk under a collision-free name and returns
// the path relative to the docs directory. The client-supplied name is
// reduced to its base name so it cannot escape the directory.
func (in *Ingestor) Save(name string, r io.Reader) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", invalidInputf("invalid file name %q", name)
	}

	rel := ulid.Make().String() + "_" + base
	f, err := os.Create(filepath.Join(in.docsDir, rel))
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return rel, nil
}

// Resolve maps a stored relative path back to an absolute path, rejecting
// anything outside the docs directory.
func (in *Ingestor) Resolve(rel string) (string, error) {
	abs := filepath.Join(in.docsDir, filepath.Clean(rel))
	dir, err := filepath.Abs(in.docsDir)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	if resolved != dir && !strings.HasPrefix(resolved, dir+string(filepath.Separator)) {
		return "", invalidInputf("path %q escapes docs dir", rel)
	}
	return resolved, nil
}

// ExtractText reads the stored file and returns its plain text.
func (in *Ingestor) ExtractText(rel string) (string, error) {
	abs, err := in.Resolve(rel)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".pdf":
		return extractPDF(abs)
	case ".txt", ".md":
		data, err := os.ReadFile(abs)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", invalidInputf("unsupported file type %q", filepath.Ext(abs))
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return buf.String(), nil
}
