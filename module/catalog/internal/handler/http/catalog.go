package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/chim712/shuttle-roid-TestServer/module/catalog/domain"
)

type catalogService interface {
	CheckUpdate(ctx context.Context, clientFlag, orgID int64) (bool, error)
	FetchPayload(ctx context.Context, orgID int64) (json.RawMessage, error)
	GetSchedule(ctx context.Context, carNo string) (*domain.ScheduleEntry, error)
}

type CatalogHandler struct {
	catalogSvc catalogService
	logger     *zap.SugaredLogger
}

func NewCatalogHandler(catalogSvc catalogService, logger *zap.SugaredLogger) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, logger: logger}
}

func (h *CatalogHandler) Register(r *gin.RouterGroup) {
	r.GET("/update/check", h.CheckUpdate)
	r.GET("/update", h.FetchPayload)
	r.GET("/api/schedule/:car_no", h.GetSchedule)
}

func (h *CatalogHandler) CheckUpdate(c *gin.Context) {
	flag, err := strconv.ParseInt(c.Query("flag"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid flag parameter"})
		return
	}

	orgID, err := strconv.ParseInt(c.Query("orgID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid orgID parameter"})
		return
	}

	update, err := h.catalogSvc.CheckUpdate(c.Request.Context(), flag, orgID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, update)
}

func (h *CatalogHandler) FetchPayload(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Query("orgID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid orgID parameter"})
		return
	}

	payload, err := h.catalogSvc.FetchPayload(c.Request.Context(), orgID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func (h *CatalogHandler) GetSchedule(c *gin.Context) {
	carNo := c.Param("car_no")

	entry, err := h.catalogSvc.GetSchedule(c.Request.Context(), carNo)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// fail maps catalog errors to status codes. Only an unknown carNo is the
// caller's problem; everything else is bad server data.
func (h *CatalogHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrScheduleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h.logger.Errorw("catalog request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
