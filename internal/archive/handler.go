package archive

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prepvoice/backend/pkg/response"
)

// Handler exposes the archived reports.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an archive handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/reports?limit=N.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	reports, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list reports", zap.Error(err))
		response.Internal(c, "failed to list reports")
		return
	}
	response.OK(c, gin.H{"reports": reports})
}
