package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/adminapi"
	"github.com/talkincode/salesledger/internal/app"
	"github.com/talkincode/salesledger/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	configFile string
	demoData   bool
	threshold  int
)

func main() {
	root := &cobra.Command{
		Use:           "salesledger",
		Short:         "Sales and inventory ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")

	initdbCmd := &cobra.Command{
		Use:   "initdb",
		Short: "Drop and recreate all tables",
		RunE:  runInitDB,
	}
	initdbCmd.Flags().BoolVar(&demoData, "demo", false, "seed demo suppliers, customers and products")

	reportCmd := &cobra.Command{
		Use:       "report <name>",
		Short:     "Print a report as json",
		Args:      cobra.ExactArgs(1),
		ValidArgs: reportNames,
		RunE:      runReport,
	}
	reportCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "threshold or top-n limit, 0 uses the configured default")

	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Start the admin api", RunE: runServe},
		initdbCmd,
		reportCmd,
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadApplication() (*app.Application, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	application := app.NewApplication(cfg)
	application.Init(cfg)
	return application, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	application, err := loadApplication()
	if err != nil {
		return err
	}
	defer application.Release()

	srv := webserver.NewAdminServer(application.Config(), application)
	adminapi.Register(srv)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down admin api", zap.String("namespace", "web"))
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	application, err := loadApplication()
	if err != nil {
		return err
	}
	defer application.Release()

	application.InitDb()
	if demoData {
		return application.SeedDemoData(cmd.Context())
	}
	return nil
}

var reportNames = []string{
	"critical-stock", "top-sellers", "revenue-by-category",
	"never-sold", "stock-status", "high-stock", "snapshot",
}

func runReport(cmd *cobra.Command, args []string) error {
	application, err := loadApplication()
	if err != nil {
		return err
	}
	defer application.Release()

	ctx := cmd.Context()
	reports := application.Reports()
	var result interface{}
	switch args[0] {
	case "critical-stock":
		result, err = reports.CriticalStock(ctx, threshold)
	case "top-sellers":
		result, err = reports.TopSellers(ctx, threshold)
	case "revenue-by-category":
		result, err = reports.RevenueByCategory(ctx)
	case "never-sold":
		result, err = reports.NeverSold(ctx)
	case "stock-status":
		result, err = reports.StockStatus(ctx, threshold)
	case "high-stock":
		result, err = reports.HighStock(ctx, threshold)
	case "snapshot":
		result, err = reports.Snapshot(ctx)
	default:
		return errors.Errorf("unknown report %q, expected one of %v", args[0], reportNames)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
