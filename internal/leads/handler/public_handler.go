package handler

import (
	"io"
	"net/http"
	"strconv"

	"photo_portal_backend/internal/leads/intake"
	"photo_portal_backend/internal/leads/transport"
	"photo_portal_backend/platform/apperr"
	"photo_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// maxSubmissionBytes bounds the contact form body. Larger bodies are cut and fail JSON decoding.
const maxSubmissionBytes = 64 << 10

// PublicHandler serves the unauthenticated contact form endpoint.
type PublicHandler struct {
	intake *intake.Service
}

func NewPublicHandler(svc *intake.Service) *PublicHandler {
	return &PublicHandler{intake: svc}
}

// RegisterRoutes mounts POST "" on rg, which is expected to be /public/leads.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
}

// Submit runs one contact form submission through intake.
func (h *PublicHandler) Submit(c *gin.Context) {
	body, _ := io.ReadAll(io.LimitReader(c.Request.Body, maxSubmissionBytes))

	res, err := h.intake.Submit(c.Request.Context(), httpkit.ClientIdentifier(c), body)
	if err != nil {
		if apperr.Is(err, apperr.KindRateLimited) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
		}
		httpkit.HandleError(c, err)
		return
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.RateLimit.Remaining))
	httpkit.JSON(c, http.StatusCreated, transport.SubmitLeadResponse{
		Success: true,
		Message: intake.MsgCreated,
		LeadID:  res.Lead.ID.String(),
	})
}
