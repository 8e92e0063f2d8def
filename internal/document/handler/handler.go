package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/service"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
)

// RegisterDocumentRoutes mounts the upload, search and download routes under
// /rest. Dates in requests use the codec's pattern.
func RegisterDocumentRoutes(r gin.IRouter, svc service.Service, dc *codec.Codec) {
	h := &documentHandler{svc: svc, codec: dc}
	g := r.Group("/rest")
	g.POST("/upload", h.upload)
	g.GET("/files", h.find)
	g.GET("/file", func(c *gin.Context) { h.download(c, c.Query("id")) })
	g.GET("/file/:id", func(c *gin.Context) { h.download(c, c.Param("id")) })
}

type documentHandler struct {
	svc   service.Service
	codec *codec.Codec
}

func (h *documentHandler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	date, ok := h.dateParam(c, formValue(c, "date"))
	if !ok {
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := document.NewDocument(content, fh.Filename, formValue(c, "author"), date)
	meta, err := h.svc.Save(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, "upload", err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *documentHandler) find(c *gin.Context) {
	var author *string
	if v, ok := c.GetQuery("author"); ok && v != "" {
		author = &v
	}
	date, ok := h.dateParam(c, c.Query("date"))
	if !ok {
		return
	}
	list, err := h.svc.FindFileUploads(c.Request.Context(), author, date)
	if err != nil {
		h.fail(c, "find", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *documentHandler) download(c *gin.Context, id string) {
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	doc, err := h.svc.Load(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "download", err)
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	c.Data(http.StatusOK, "application/octet-stream", doc.Content)
}

// dateParam parses v with the codec pattern. It writes a 400 and returns
// false when v is set but unparseable.
func (h *documentHandler) dateParam(c *gin.Context, v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	t, err := h.codec.ParseDate(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must match " + h.codec.Pattern()})
		return nil, false
	}
	return &t, true
}

func (h *documentHandler) fail(c *gin.Context, op string, err error) {
	var eerr *codec.EncodingError
	switch {
	case errors.As(err, &eerr), errors.Is(err, repository.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// formValue reads a multipart field, falling back to the query string.
func formValue(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}
