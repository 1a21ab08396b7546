package http

import (
	"context"
	_ "embed"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chim712/shuttle-roid-TestServer/module/live/domain"
)

//go:embed index.html
var indexPage []byte

type reportService interface {
	Ingest(ctx context.Context, body []byte, source string) (*domain.StoredRecord, error)
	GetLatest(ctx context.Context) (*domain.StoredRecord, bool, error)
}

type ReportHandler struct {
	reportSvc reportService
}

func NewReportHandler(reportSvc reportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (h *ReportHandler) Register(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.POST("/ingest", h.Ingest)
	r.GET("/data", h.GetData)
}

func (h *ReportHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (h *ReportHandler) Ingest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	rec, err := h.reportSvc.Ingest(c.Request.Context(), body, c.RemoteIP())
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid report", "detail": verr.Problems})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetData answers JSON null until the first report arrives.
func (h *ReportHandler) GetData(c *gin.Context) {
	rec, ok, err := h.reportSvc.GetLatest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read latest report"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, rec)
}
