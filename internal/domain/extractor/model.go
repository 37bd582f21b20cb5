package extractor

import "context"

// Document is an uploaded artifact awaiting extraction. It only lives for the
// duration of a request.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// PDFParser turns a PDF on disk into plain text.
type PDFParser interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Config tunes where transient PDF files are written.
type Config struct {
	// TempDir defaults to os.TempDir when empty.
	TempDir string
}
