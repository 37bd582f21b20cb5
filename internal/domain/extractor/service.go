package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

// ContentTypePDF marks a document as PDF regardless of its filename.
const ContentTypePDF = "application/pdf"

// Service resolves uploaded documents into text.
type Service interface {
	Extract(ctx context.Context, doc Document) (string, error)
}

type service struct {
	cfg    Config
	pdf    PDFParser
	logger *slog.Logger
}

// NewService is a wire provider for the extractor domain.
func NewService(cfg Config, pdf PDFParser, logger *slog.Logger) Service {
	return &service{cfg: cfg, pdf: pdf, logger: logger.With("component", "extractor.service")}
}

func (s *service) Extract(ctx context.Context, doc Document) (string, error) {
	if IsPDF(doc) {
		return s.extractPDF(ctx, doc)
	}
	return DecodeText(doc.Content), nil
}

// extractPDF stages the bytes in a temp file for the parser. The write handle
// must be closed before the parser opens the path.
func (s *service) extractPDF(ctx context.Context, doc Document) (text string, err error) {
	if s.pdf == nil {
		return "", apperrors.Wrap(apperrors.CodeExtraction, "pdf extraction unavailable", nil)
	}
	tmp, err := os.CreateTemp(s.cfg.TempDir, "legal-*.pdf")
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeExtraction, "failed to stage pdf", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("temp pdf cleanup failed", "path", path, "error", rmErr)
		}
	}()

	if _, err := tmp.Write(doc.Content); err != nil {
		_ = tmp.Close()
		return "", apperrors.Wrap(apperrors.CodeExtraction, "failed to stage pdf", err)
	}
	if err := tmp.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.CodeExtraction, "failed to stage pdf", err)
	}

	text, err = s.pdf.ExtractText(ctx, path)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeExtraction, fmt.Sprintf("pdf extraction failed for %q", displayName(doc)), err)
	}
	s.logger.Debug("pdf extracted", "filename", doc.Filename, "bytes", len(doc.Content), "chars", utf8.RuneCountInString(text))
	return text, nil
}

// IsPDF reports whether the document should go through PDF extraction.
func IsPDF(doc Document) bool {
	if strings.EqualFold(filepath.Ext(strings.TrimSpace(doc.Filename)), ".pdf") {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(doc.ContentType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType == ContentTypePDF
}

// DecodeText decodes UTF-8 and falls back to latin-1.
func DecodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(decoded)
}

func displayName(doc Document) string {
	if name := strings.TrimSpace(doc.Filename); name != "" {
		return name
	}
	return "uploaded_file"
}
