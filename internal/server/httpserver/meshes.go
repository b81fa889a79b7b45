package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/medmod/internal/common"
	"github.com/dmitrijs2005/medmod/internal/logging"
	"github.com/dmitrijs2005/medmod/internal/server/services"
)

type meshHandler struct {
	svc      MeshService
	logger   logging.Logger
	maxBytes int64
}

func (h *meshHandler) create(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.logger, common.Invalid("upload exceeds %d bytes", h.maxBytes))
			return
		}
		writeError(c, h.logger, common.Invalid("expected a multipart/form-data body"))
		return
	}
	defer form.RemoveAll()

	in := services.CreateMeshInput{
		Name:      formValue(form, "name"),
		ShortDesc: formValue(form, "shortDesc"),
		LongDesc:  formValue(form, "longDesc"),
	}

	for _, fh := range form.File[common.MeshFilesField] {
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.logger, common.Invalid("unable to read file '%s'", fh.Filename))
			return
		}
		defer f.Close()

		in.Files = append(in.Files, services.FileUpload{
			OriginalName: fh.Filename,
			MimeType:     contentType(fh),
			Size:         fh.Size,
			Content:      f,
		})
	}

	m, err := h.svc.Create(c.Request.Context(), c.Param("userId"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newMeshResponse(m))
}

func (h *meshHandler) get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("meshId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newMeshResponse(m))
}

func (h *meshHandler) fileURL(c *gin.Context) {
	url, err := h.svc.FileURL(c.Request.Context(), c.Param("meshId"), c.Param("fileId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, FileURLResponse{URL: url})
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
