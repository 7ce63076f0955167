package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/internal/repository"
	"github.com/mamadbah2/ricemill/internal/service/records"
)

// Expander turns stored records into response bodies, e.g. with references populated.
type Expander[T any] func(ctx context.Context, docs []T) ([]any, error)

// Expand adapts a typed populate function to an Expander.
func Expand[T any, V any](fn func(ctx context.Context, docs []T) ([]V, error)) Expander[T] {
	return func(ctx context.Context, docs []T) ([]any, error) {
		views, err := fn(ctx, docs)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(views))
		for i, v := range views {
			out[i] = v
		}
		return out, nil
	}
}

// ResourceHandler serves list, create, read, update and delete for one record type.
type ResourceHandler[E any, T interface {
	*E
	models.Document
}] struct {
	entity string
	svc    *records.Service[E, T]
	expand Expander[T]
	logger *zap.Logger
}

// NewResourceHandler builds a handler. entity is the display name used in
// messages, e.g. "Lot". expand may be nil to return records as stored.
func NewResourceHandler[E any, T interface {
	*E
	models.Document
}](entity string, svc *records.Service[E, T], expand Expander[T], logger *zap.Logger) *ResourceHandler[E, T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceHandler[E, T]{entity: entity, svc: svc, expand: expand, logger: logger}
}

// Register mounts the handler on group.
func (h *ResourceHandler[E, T]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List returns every record, newest first.
func (h *ResourceHandler[E, T]) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context(), repository.ListOptions{})
	if err != nil {
		h.handleError(c, "fetch", err)
		return
	}

	body, err := h.render(c.Request.Context(), docs)
	if err != nil {
		h.handleError(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// Create stores the JSON body as a new record.
func (h *ResourceHandler[E, T]) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	doc, err := h.svc.Create(c.Request.Context(), raw)
	if err != nil {
		h.handleError(c, "create", err)
		return
	}
	h.respondOne(c, http.StatusCreated, "create", doc)
}

// Get returns one record.
func (h *ResourceHandler[E, T]) Get(c *gin.Context) {
	doc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "fetch", err)
		return
	}
	h.respondOne(c, http.StatusOK, "fetch", doc)
}

// Update merges the JSON body onto the stored record.
func (h *ResourceHandler[E, T]) Update(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		h.handleError(c, "update", err)
		return
	}
	h.respondOne(c, http.StatusOK, "update", doc)
}

// Delete removes one record.
func (h *ResourceHandler[E, T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.entity + " deleted successfully"})
}

func (h *ResourceHandler[E, T]) respondOne(c *gin.Context, status int, action string, doc T) {
	body, err := h.render(c.Request.Context(), []T{doc})
	if err != nil {
		h.handleError(c, action, err)
		return
	}
	c.JSON(status, body[0])
}

func (h *ResourceHandler[E, T]) render(ctx context.Context, docs []T) ([]any, error) {
	if h.expand != nil {
		return h.expand(ctx, docs)
	}
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = d
	}
	return out, nil
}

func (h *ResourceHandler[E, T]) handleError(c *gin.Context, action string, err error) {
	handleError(c, h.logger, h.entity, action, err)
}

func handleError(c *gin.Context, logger *zap.Logger, entity, action string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " " + entity})
	}
}
