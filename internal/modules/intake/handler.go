package intake

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"eduportal/internal/pkg/response"
	"eduportal/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/api/leads/:linkId/documents", h.UploadDocuments)
}

// UploadDocuments accepts a multipart batch. Files may arrive under any
// field; "documents" is what the portal sends.
func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.Error(c, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	lead, err := h.service.Submit(c.Request.Context(), requestFromForm(c.Param("linkId"), form))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, lead.View())
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var missing *MissingDocumentsError
	var rejected *storage.RejectedError

	switch {
	case errors.Is(err, ErrUsernameRequired), errors.As(err, &missing), errors.As(err, &rejected):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, ErrCounselorNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}

func requestFromForm(linkID string, form *multipart.Form) Request {
	req := Request{
		LinkID:        linkID,
		DocumentTypes: map[string]string{},
	}
	if form == nil {
		return req
	}

	if v := form.Value["counselorUsername"]; len(v) > 0 {
		req.CounselorUsername = v[0]
	}
	for key, values := range form.Value {
		if name, ok := strings.CutPrefix(key, DocumentTypePrefix); ok && len(values) > 0 {
			req.DocumentTypes[name] = values[0]
		}
	}

	// The parsed form does not record the order of fields, only the order
	// of files within one field. Files under "documents" keep their upload
	// order; separate fields are taken in name order.
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, fh := range form.File[field] {
			req.Files = append(req.Files, fileFromHeader(field, fh))
		}
	}
	return req
}

func fileFromHeader(field string, fh *multipart.FileHeader) File {
	return File{
		Field:     field,
		Name:      fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
