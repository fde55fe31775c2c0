package uploads

import (
	"errors"
	"net/http"
	"time"

	"photo_portal_backend/internal/adapters/storage"
	"photo_portal_backend/platform/apperr"
	"photo_portal_backend/platform/httpkit"
	"photo_portal_backend/platform/logger"
	"photo_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest = "Requisição inválida"
	msgInvalidFile    = "Arquivo inválido. Envie uma imagem ou PDF de até 10MB."
	msgUploadFailed   = "Não foi possível preparar o envio do arquivo"

	referenceFileFolder = "leads"
)

// ReferenceFileRequest describes the file the visitor is about to upload.
type ReferenceFileRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

// ReferenceFileResponse tells the browser where to PUT the file and what URL to
// send back as referenceFileUrl.
type ReferenceFileResponse struct {
	UploadURL     string            `json:"uploadUrl"`
	UploadHeaders map[string]string `json:"uploadHeaders,omitempty"`
	FileKey       string            `json:"fileKey"`
	FileURL       string            `json:"fileUrl"`
	ExpiresAt     time.Time         `json:"expiresAt"`
}

// Handler presigns reference-file uploads for the contact form.
type Handler struct {
	storage storage.StorageService
	bucket  string
	val     *validator.Validator
	log     *logger.Logger
}

func NewHandler(svc storage.StorageService, bucket string, val *validator.Validator, log *logger.Logger) *Handler {
	if val == nil {
		val = validator.New()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{storage: svc, bucket: bucket, val: val, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reference-file", h.PresignReferenceFile)
}

func (h *Handler) PresignReferenceFile(c *gin.Context) {
	var req ReferenceFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	presigned, err := h.storage.GenerateUploadURL(c.Request.Context(), h.bucket, referenceFileFolder, req.FileName, req.ContentType, req.SizeBytes)
	if errors.Is(err, storage.ErrInvalidFile) {
		httpkit.HandleError(c, apperr.Validation(msgInvalidFile).WithDetails(err.Error()))
		return
	}
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("presign reference file failed", "error", err)
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, msgUploadFailed, err))
		return
	}

	httpkit.OK(c, ReferenceFileResponse{
		UploadURL:     presigned.URL,
		UploadHeaders: presigned.Headers,
		FileKey:       presigned.FileKey,
		FileURL:       h.storage.PublicURL(h.bucket, presigned.FileKey),
		ExpiresAt:     presigned.ExpiresAt,
	})
}
