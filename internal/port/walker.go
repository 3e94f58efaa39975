package port

import (
	"context"

	"navigator/internal/domain"
)

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	RelPath string
	ModTime int64
	Size    int64
}

// DocumentLoader extracts plain text from a corpus file.
type DocumentLoader interface {
	Load(ctx context.Context, file FileInfo) (domain.Document, error)
}
