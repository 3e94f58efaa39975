package port

// Chunker splits the extracted text of one document into fragment texts.
type Chunker interface {
	Chunk(text string) []string
}
