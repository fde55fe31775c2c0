// Package uploads lets contact-form visitors attach a reference file. The API
// only presigns; the browser uploads straight to object storage.
package uploads

import (
	"photo_portal_backend/internal/adapters/storage"
	apphttp "photo_portal_backend/internal/http"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/validator"
)

type Module struct {
	handler *Handler
}

func NewModule(svc storage.StorageService, bucket string, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(svc, bucket, val, log)}
}

func (m *Module) Name() string { return "uploads" }

// RegisterRoutes mounts /public/uploads behind the public IP guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public.Group("/uploads"))
}

var _ apphttp.Module = (*Module)(nil)
