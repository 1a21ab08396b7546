package catalog

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handler "github.com/chim712/shuttle-roid-TestServer/module/catalog/internal/handler/http"
	"github.com/chim712/shuttle-roid-TestServer/module/catalog/internal/repository/source/file"
	"github.com/chim712/shuttle-roid-TestServer/module/catalog/service"
)

type Module struct {
	CatalogSvc *service.CatalogService
	handler    *handler.CatalogHandler
}

func Build(dataDir string, logger *zap.SugaredLogger) *Module {
	reader := file.NewReader(dataDir)
	catalogSvc := service.NewCatalogService(reader, logger)

	return &Module{
		CatalogSvc: catalogSvc,
		handler:    handler.NewCatalogHandler(catalogSvc, logger),
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}
