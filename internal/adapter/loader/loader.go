package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"navigator/internal/domain"
	"navigator/internal/port"
)

// Loader extracts plain text from corpus files. PDFs go through the PDF
// text extractor; everything else is read as UTF-8 text.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

func (l *Loader) Load(ctx context.Context, file port.FileInfo) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	source := file.RelPath
	if source == "" {
		source = filepath.Base(file.Path)
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(file.Path)) {
	case ".pdf":
		text, err = readPDF(file.Path)
	default:
		text, err = readText(file.Path)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", source, err)
	}

	return domain.Document{
		Source: source,
		Path:   file.Path,
		Text:   text,
	}, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8 text")
	}
	return string(data), nil
}
