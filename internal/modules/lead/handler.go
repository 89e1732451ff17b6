package lead

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eduportal/internal/domain"
	"eduportal/internal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the lead endpoints on the paths the portal and
// the admin dashboard already call.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/add_new_lead", h.Create)
	r.GET("/get_all_lead_data", h.List)
	r.PATCH("/update_leads_by_counselor/:leadId", h.UpdateByCounselor)
	r.PATCH("/add_new_document/:phoneNumberLead", h.ReplaceDocuments)

	r.GET("/api/leads/export", h.Export)
	r.GET("/api/leads/link/:linkId", h.GetByLink)
	r.POST("/api/leads/verify-phone", h.VerifyPhone)
	r.PATCH("/api/leads/:linkId", h.UpdateStatus)
	r.GET("/api/leads/:linkId/documents/:documentId", h.ServeDocument)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lead, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Inserted(c, http.StatusCreated, lead.ID)
}

func (h *Handler) List(c *gin.Context) {
	leads, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	views := make([]domain.LeadView, 0, len(leads))
	for i := range leads {
		views = append(views, leads[i].View())
	}
	response.JSON(c, http.StatusOK, views)
}

func (h *Handler) GetByLink(c *gin.Context) {
	lead, err := h.service.GetByLink(c.Request.Context(), c.Param("linkId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead.View())
}

func (h *Handler) VerifyPhone(c *gin.Context) {
	var req VerifyPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lead, err := h.service.VerifyPhone(c.Request.Context(), req.Phone)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lead.View())
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.service.UpdateStatus(c.Request.Context(), c.Param("linkId"), req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

func (h *Handler) UpdateByCounselor(c *gin.Context) {
	var req CounselorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.service.UpdateByCounselor(c.Request.Context(), c.Param("leadId"), req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

func (h *Handler) ReplaceDocuments(c *gin.Context) {
	var docs []domain.Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	lead, created, err := h.service.ReplaceDocuments(c.Request.Context(), c.Param("phoneNumberLead"), docs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusOK, gin.H{
			"acknowledged":  true,
			"matchedCount":  0,
			"modifiedCount": 0,
			"upsertedCount": 1,
			"upsertedId":    lead.ID,
		})
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

// ServeDocument streams a stored document inline so browsers preview it.
func (h *Handler) ServeDocument(c *gin.Context) {
	doc, err := h.service.OpenDocument(c.Request.Context(), c.Param("linkId"), c.Param("documentId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer doc.File.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.ContentType, doc.File, map[string]string{
		"Content-Disposition": contentDisposition("inline", doc.Name),
	})
}

func (h *Handler) Export(c *gin.Context) {
	buf, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", contentDisposition("attachment", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// contentDisposition quotes and escapes filename, which clients control
// through add_new_document.
func contentDisposition(disposition, filename string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return disposition
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrPhoneRequired),
		errors.Is(err, ErrInvalidStudentID):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLeadNotFound),
		errors.Is(err, ErrPhoneNotRegistered),
		errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrFileNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateLead), errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
