package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/salesledger/internal/ledger"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	spec := a.appConfig.Report.DailyJobSpec
	if spec == "" {
		spec = "@daily"
	}
	_, err := a.sched.AddFunc(spec, a.SchedCriticalStockTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedCriticalStockTask logs every product below the critical threshold
func (a *Application) SchedCriticalStockTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	threshold := a.reports.Defaults().CriticalThreshold
	rows, err := a.reports.CriticalStock(ctx, threshold)
	if err != nil {
		zap.L().Error("critical stock job failed", zap.String("namespace", "report"), zap.Error(err))
		return
	}
	for _, r := range rows {
		zap.L().Warn("product stock critical",
			zap.String("namespace", "report"),
			zap.Int64("product_id", r.ID),
			zap.String("name", r.Name),
			zap.Int("stock", r.Stock),
			zap.Int("threshold", threshold))
	}
	zap.L().Info("critical stock job done",
		zap.String("namespace", "report"),
		zap.Int("critical_count", len(rows)))
}

// onSaleRegistered warns when a sale leaves its product below the critical threshold
func (a *Application) onSaleRegistered(ev ledger.SaleEvent) {
	threshold := a.appConfig.Report.CriticalThreshold
	if ev.RemainingStock >= threshold {
		return
	}
	zap.L().Warn("sale left product below critical stock",
		zap.String("namespace", "ledger"),
		zap.Int64("sale_id", ev.SaleID),
		zap.Int64("product_id", ev.ProductID),
		zap.Int("remaining_stock", ev.RemainingStock),
		zap.Int("threshold", threshold))
}
