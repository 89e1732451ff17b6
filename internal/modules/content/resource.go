package content

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"eduportal/internal/domain"
	"eduportal/internal/pkg/response"
	"eduportal/internal/pkg/validator"
)

type entity[T any] interface {
	*T
	domain.Entity
}

// Resource serves the list/create/update/delete endpoints of one content
// collection.
type Resource[T any, P entity[T]] struct {
	name  string
	store Store[T]
	log   *zap.Logger
	now   func() time.Time

	// protect clears server-owned fields from client input.
	protect func(*T)
	// stamp fills server-owned fields of a new record.
	stamp func(*T, time.Time)
}

func newResource[T any, P entity[T]](name string, store Store[T], log *zap.Logger) *Resource[T, P] {
	return &Resource[T, P]{
		name:    name,
		store:   store,
		log:     log,
		now:     time.Now,
		protect: func(*T) {},
		stamp:   func(*T, time.Time) {},
	}
}

func (r *Resource[T, P]) List(c *gin.Context) {
	items, err := r.store.List(c.Request.Context())
	if err != nil {
		r.writeError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.JSON(c, http.StatusOK, items)
}

// Latest responds with the newest record only, or null when there is none.
func (r *Resource[T, P]) Latest(c *gin.Context) {
	items, err := r.store.List(c.Request.Context())
	if err != nil {
		r.writeError(c, err)
		return
	}
	if len(items) == 0 {
		response.JSON(c, http.StatusOK, nil)
		return
	}
	response.JSON(c, http.StatusOK, items[0])
}

func (r *Resource[T, P]) Get(c *gin.Context) {
	item, err := r.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (r *Resource[T, P]) Create(c *gin.Context) {
	item := new(T)
	if !r.bind(c, item) {
		return
	}
	r.stamp(item, r.now())

	if errs := validator.Validate(item); errs != nil {
		response.Error(c, http.StatusBadRequest, validator.Summary(errs))
		return
	}
	if err := r.store.Create(c.Request.Context(), item); err != nil {
		r.writeError(c, err)
		return
	}

	id := P(item).RecordID()
	r.log.Info("content created", zap.String("collection", r.name), zap.String("id", id))
	response.Inserted(c, http.StatusCreated, id)
}

// Update merges the non-empty fields of the body into the stored record.
func (r *Resource[T, P]) Update(c *gin.Context) {
	patch := new(T)
	if !r.bind(c, patch) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	stored, err := r.store.Get(ctx, id)
	if err != nil {
		r.writeError(c, err)
		return
	}
	if err := copier.CopyWithOption(stored, patch, copier.Option{IgnoreEmpty: true}); err != nil {
		r.writeError(c, fmt.Errorf("merge %s: %w", r.name, err))
		return
	}
	if errs := validator.Validate(stored); errs != nil {
		response.Error(c, http.StatusBadRequest, validator.Summary(errs))
		return
	}

	if err := r.store.Replace(ctx, id, stored); err != nil {
		r.writeError(c, err)
		return
	}
	response.Updated(c, http.StatusOK, 1, 1)
}

func (r *Resource[T, P]) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := r.store.Delete(c.Request.Context(), id); err != nil {
		r.writeError(c, err)
		return
	}
	r.log.Info("content deleted", zap.String("collection", r.name), zap.String("id", id))
	response.Deleted(c, http.StatusOK, 1)
}

// Increment returns a handler that adds one to a counter field. Unknown
// ids are reported, never created.
func (r *Resource[T, P]) Increment(field, updated, failed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := r.store.Increment(c.Request.Context(), c.Param("id"), field)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": r.name + " not found"})
		case err != nil:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": failed})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "message": updated})
		}
	}
}

func (r *Resource[T, P]) bind(c *gin.Context, item *T) bool {
	if err := c.ShouldBindJSON(item); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	P(item).ClearRecord()
	r.protect(item)
	return true
}

func (r *Resource[T, P]) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(c, http.StatusNotFound, r.name+" not found")
	case errors.Is(err, domain.ErrConflict):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, err.Error())
	}
}
