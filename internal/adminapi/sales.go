package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/ledger"
)

func registerSalesRoutes(s routeRegistrar) {
	s.ApiPOST("/sales", registerSale)
	s.ApiGET("/sales", listSales)
}

func registerSale(c echo.Context) error {
	var req ledger.SaleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return handleValidationError(c, err)
	}

	id, err := GetAppContext(c).Ledger().RegisterSale(c.Request().Context(), req)
	if err != nil {
		return failFromError(c, err, "Failed to register sale")
	}
	return created(c, map[string]interface{}{"id": id})
}

// listSales returns the whole history, or a period when start and end are given
func listSales(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	l := GetAppContext(c).Ledger()
	ctx := c.Request().Context()

	if start == "" && end == "" {
		rows, err := l.ListSales(ctx)
		if err != nil {
			return failFromError(c, err, "Failed to query sales")
		}
		return ok(c, rows)
	}
	if start == "" || end == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Both start and end are required", nil)
	}

	rows, err := l.ListSalesByPeriod(ctx, start, end)
	if err != nil {
		return failFromError(c, err, "Failed to query sales")
	}
	return ok(c, rows)
}
