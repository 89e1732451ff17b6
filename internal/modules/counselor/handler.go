package counselor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eduportal/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/add_new_counselor", h.Create)
	r.GET("/all_counselor_data", h.List)
	r.PATCH("/update_account_counselor_information/:id", h.Update)
	r.PATCH("/update_counselor_data/:id", h.Update)

	r.GET("/api/counselors/me", h.Me)
	r.PATCH("/api/counselors/:id", h.UpdateByNumericID)
	r.DELETE("/api/counselors/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCounselorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	counselor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Inserted(c, http.StatusCreated, counselor.ID)
}

func (h *Handler) List(c *gin.Context) {
	counselors, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counselors)
}

func (h *Handler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), c.Query("counselorUsername"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

func (h *Handler) Update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.service.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		h.writeError(c, err)
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

func (h *Handler) UpdateByNumericID(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.service.UpdateByNumericID(c.Request.Context(), c.Param("id"), patch); err != nil {
		h.writeError(c, err)
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.DeleteByNumericID(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Counselor deleted successfully",
		"deletedCount": 1,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUsernameRequired):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCounselorNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUsernameTaken):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
