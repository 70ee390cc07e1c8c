package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm/schema"
)

// TableInfo is a migrated table and its current row count
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// JobInfo is a scheduled background job
type JobInfo struct {
	ID   int    `json:"id"`
	Next string `json:"next"`
	Prev string `json:"prev,omitempty"`
}

func registerSystemRoutes(s routeRegistrar) {
	s.ApiGET("/system/tables", listTables)
	s.ApiGET("/system/jobs", listJobs)
	s.ApiPOST("/system/jobs/critical-stock/run", runCriticalStockJob)
}

func listTables(c echo.Context) error {
	db := GetAppContext(c).DB().WithContext(c.Request().Context())
	tables := make([]TableInfo, 0, len(domain.Tables))
	for _, model := range domain.Tables {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return failFromError(c, domain.Storage("count table rows", err), "Failed to query tables")
		}
		name := ""
		if t, isTabler := model.(schema.Tabler); isTabler {
			name = t.TableName()
		}
		tables = append(tables, TableInfo{Name: name, RowCount: count})
	}
	return ok(c, tables)
}

func listJobs(c echo.Context) error {
	jobs := make([]JobInfo, 0)
	sched := GetAppContext(c).Scheduler()
	if sched == nil {
		return ok(c, jobs)
	}
	for _, entry := range sched.Entries() {
		info := JobInfo{ID: int(entry.ID), Next: entry.Next.Format("2006-01-02 15:04:05")}
		if !entry.Prev.IsZero() {
			info.Prev = entry.Prev.Format("2006-01-02 15:04:05")
		}
		jobs = append(jobs, info)
	}
	return ok(c, jobs)
}

// runCriticalStockJob triggers the critical stock job immediately
func runCriticalStockJob(c echo.Context) error {
	GetAppContext(c).SchedCriticalStockTask()
	return c.NoContent(http.StatusNoContent)
}
