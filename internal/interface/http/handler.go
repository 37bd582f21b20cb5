package http

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/legal-assistant/internal/domain/analysis"
	"github.com/yanqian/legal-assistant/internal/domain/extractor"
)

const (
	rootMessage     = "Smart Legal Assistant is running!"
	multipartMemory = 8 << 20
	defaultFilename = "uploaded_file"
)

// ModelInfo names the models reported by /ping.
type ModelInfo struct {
	Summarizer string `json:"summarizer"`
	NLI        string `json:"nli"`
}

// Handler wires the HTTP transport to the analysis pipeline.
type Handler struct {
	analysisSvc    analysis.Service
	models         ModelInfo
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(analysisSvc analysis.Service, models ModelInfo, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		analysisSvc:    analysisSvc,
		models:         models,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "http.handler"),
	}
}

type analyzeJSON struct {
	Text string `json:"text"`
}

// Root answers the liveness banner.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": rootMessage})
}

// Ping reports status and the configured model ids.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "models": h.models})
}

// Analyze accepts a form field `text`, a multipart file `file`, or a JSON
// body {"text": ...} and returns the summary, clauses and flagged risks.
func (h *Handler) Analyze(c *gin.Context) {
	h.limitBody(c)

	var req analysis.Request
	if isJSON(c.Request) {
		var body analyzeJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			abortWithError(c, requestError(err))
			return
		}
		req.Text = body.Text
	} else {
		if err := parseForm(c.Request); err != nil {
			abortWithError(c, requestError(err))
			return
		}
		req.Text = c.Request.PostFormValue("text")
		doc, err := readUpload(c.Request, "file")
		if err != nil {
			abortWithError(c, requestError(err))
			return
		}
		req.Document = doc
	}

	result, err := h.analysisSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, analysisError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeText is the legacy text endpoint; `text` is required.
func (h *Handler) AnalyzeText(c *gin.Context) {
	h.limitBody(c)
	if err := parseForm(c.Request); err != nil {
		h.legacyError(c, legacyStatus(err), err)
		return
	}
	values, ok := c.Request.PostForm["text"]
	if !ok || len(values) == 0 {
		h.legacyError(c, http.StatusBadRequest, errors.New("field required: text"))
		return
	}

	result, err := h.analysisSvc.Analyze(c.Request.Context(), analysis.Request{Text: values[0]})
	if err != nil {
		h.legacyError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzePDF is the legacy upload endpoint; `file` is required and always
// parsed as PDF.
func (h *Handler) AnalyzePDF(c *gin.Context) {
	h.limitBody(c)
	if err := parseForm(c.Request); err != nil {
		h.legacyError(c, legacyStatus(err), err)
		return
	}
	doc, err := readUpload(c.Request, "file")
	if err != nil {
		h.legacyError(c, legacyStatus(err), err)
		return
	}
	if doc == nil {
		h.legacyError(c, http.StatusBadRequest, errors.New("field required: file"))
		return
	}
	doc.ContentType = extractor.ContentTypePDF

	result, err := h.analysisSvc.Analyze(c.Request.Context(), analysis.Request{Document: doc})
	if err != nil {
		h.legacyError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAnalyses returns recent ledger records.
func (h *Handler) ListAnalyses(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a positive integer", err))
			return
		}
		limit = parsed
	}
	records, err := h.analysisSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "ledger_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

func (h *Handler) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

func (h *Handler) legacyError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("legacy request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Warn("legacy request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errMessage(err)})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type"))), "application/json")
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readUpload returns nil when the field is absent.
func readUpload(r *http.Request, field string) (*extractor.Document, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	header := r.MultipartForm.File[field][0]
	content, err := readFileHeader(header)
	if err != nil {
		return nil, err
	}
	filename := header.Filename
	if filename == "" {
		filename = defaultFilename
	}
	return &extractor.Document{
		Filename:    filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
