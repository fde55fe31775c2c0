// Package handler exposes the leads HTTP endpoints: the public contact form and
// the read-only dashboard views.
package handler

import (
	"errors"
	"net/http"
	"time"

	"photo_portal_backend/internal/leads/domain"
	"photo_portal_backend/internal/leads/repository"
	"photo_portal_backend/internal/leads/transport"
	"photo_portal_backend/platform/apperr"
	"photo_portal_backend/platform/httpkit"
	"photo_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "Requisição inválida"
	msgLeadNotFound   = "Lead não encontrado"

	defaultPageSize = 20
)

// Handler serves the dashboard lead views.
type Handler struct {
	reader repository.LeadReader
	val    *validator.Validator
	loc    *time.Location
	now    func() time.Time
}

func New(reader repository.LeadReader, val *validator.Validator, loc *time.Location) *Handler {
	if val == nil {
		val = validator.New()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{reader: reader, val: val, loc: loc, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}

	ctx := c.Request.Context()
	items, total, err := h.reader.List(ctx, repository.ListParams{
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	stats, err := h.reader.Stats(ctx, h.now().In(h.loc))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := transport.ListLeadsResponse{
		Items:    make([]transport.LeadResponse, 0, len(items)),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Stats:    transport.ToStatsResponse(stats),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, transport.ToLeadWithProjectResponse(item))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.reader.GetByID(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		httpkit.HandleError(c, apperr.NotFound(msgLeadNotFound))
		return
	}
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}
