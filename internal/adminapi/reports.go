package adminapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/config"
)

func registerReportRoutes(s routeRegistrar) {
	s.ApiGET("/reports/critical-stock", criticalStockReport)
	s.ApiGET("/reports/top-sellers", topSellersReport)
	s.ApiGET("/reports/revenue-by-category", revenueByCategoryReport)
	s.ApiGET("/reports/never-sold", neverSoldReport)
	s.ApiGET("/reports/stock-status", stockStatusReport)
	s.ApiGET("/reports/high-stock", highStockReport)
	s.ApiGET("/reports/snapshot", snapshotReport)
}

// intQuery returns 0 for a missing or malformed value so the engine default applies
func intQuery(c echo.Context, name string) int {
	n, err := config.ParseInt(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// writeReport renders rows as json, or as a csv or xlsx download
func writeReport(c echo.Context, name string, rows interface{}) error {
	switch strings.ToLower(c.QueryParam("format")) {
	case "csv":
		resp := c.Response()
		resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		resp.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+name+".csv")
		resp.WriteHeader(http.StatusOK)
		return gocsv.Marshal(rows, resp)
	case "xlsx":
		return writeXlsx(c, name, rows)
	default:
		return ok(c, rows)
	}
}

const xlsxSheet = "Sheet1"

// writeXlsx lays the csv records of rows out on one sheet, header first
func writeXlsx(c echo.Context, name string, rows interface{}) error {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export report", err.Error())
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export report", err.Error())
	}

	xlsx := excelize.NewFile()
	for r, record := range records {
		for col, value := range record {
			axis := fmt.Sprintf("%s%d", columnName(col), r+1)
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && r > 0 {
				xlsx.SetCellValue(xlsxSheet, axis, n)
				continue
			}
			xlsx.SetCellValue(xlsxSheet, axis, value)
		}
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	resp.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+name+".xlsx")
	resp.WriteHeader(http.StatusOK)
	return xlsx.Write(resp)
}

// columnName maps a zero based column index to A, B, ... Z, AA, AB ...
func columnName(col int) string {
	name := ""
	for col++; col > 0; col = (col - 1) / 26 {
		name = string(rune('A'+(col-1)%26)) + name
	}
	return name
}

func criticalStockReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().CriticalStock(c.Request().Context(), intQuery(c, "threshold"))
	if err != nil {
		return failFromError(c, err, "Failed to build critical stock report")
	}
	return writeReport(c, "critical-stock", rows)
}

func topSellersReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().TopSellers(c.Request().Context(), intQuery(c, "n"))
	if err != nil {
		return failFromError(c, err, "Failed to build top sellers report")
	}
	return writeReport(c, "top-sellers", rows)
}

func revenueByCategoryReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().RevenueByCategory(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "Failed to build revenue report")
	}
	return writeReport(c, "revenue-by-category", rows)
}

func neverSoldReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().NeverSold(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "Failed to build never sold report")
	}
	return writeReport(c, "never-sold", rows)
}

func stockStatusReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().StockStatus(c.Request().Context(), intQuery(c, "threshold"))
	if err != nil {
		return failFromError(c, err, "Failed to build stock status report")
	}
	return writeReport(c, "stock-status", rows)
}

func highStockReport(c echo.Context) error {
	rows, err := GetAppContext(c).Reports().HighStock(c.Request().Context(), intQuery(c, "threshold"))
	if err != nil {
		return failFromError(c, err, "Failed to build high stock report")
	}
	return writeReport(c, "high-stock", rows)
}

func snapshotReport(c echo.Context) error {
	snap, err := GetAppContext(c).Reports().Snapshot(c.Request().Context())
	if err != nil {
		return failFromError(c, err, "Failed to build report snapshot")
	}
	return ok(c, snap)
}
