// Package adminapi exposes the catalog, ledger and reports as JSON over http.
package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/webserver"
)

type routeRegistrar interface {
	ApiGET(path string, h echo.HandlerFunc)
	ApiPOST(path string, h echo.HandlerFunc)
	ApiPUT(path string, h echo.HandlerFunc)
}

var _ routeRegistrar = (*webserver.AdminServer)(nil)

// Register mounts every admin route on s
func Register(s *webserver.AdminServer) {
	registerCatalogRoutes(s)
	registerSalesRoutes(s)
	registerReportRoutes(s)
	registerSystemRoutes(s)
}
