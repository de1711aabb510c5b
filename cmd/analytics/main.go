package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/client"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/config"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/report"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/storage"
	"github.com/andresuchdata/retail-forecast/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func requestFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "year", Value: 2024, Usage: "Forecast year"},
		&cli.StringFlag{Name: "month", Value: "1", Usage: "Forecast month, 1-12 or a month name"},
		&cli.IntFlag{Name: "holidays", Value: 0, Usage: "Number of holidays in the month"},
		&cli.StringFlag{Name: "forecast-url", Value: cfg.Upstream.ForecastURL, Usage: "Forecast service base URL"},
		&cli.DurationFlag{Name: "timeout", Value: cfg.Upstream.Timeout(), Usage: "Upstream request timeout"},
	}
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode, cfg.Server.LogLevel)

	app := &cli.App{
		Name:  "analytics",
		Usage: "Run demand analyses against the forecast service",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Fetch a forecast and print the dashboard analysis",
				Flags: append(requestFlags(cfg),
					&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, csv or json"},
					&cli.IntFlag{Name: "top", Value: analytics.DefaultTopN, Usage: "Number of top performers to show"},
				),
				Action: runAnalyze,
			},
			{
				Name:  "export",
				Usage: "Fetch a forecast and export the analysis as CSV",
				Flags: append(requestFlags(cfg),
					&cli.StringFlag{Name: "output", Usage: "Write to this local file instead of object storage"},
					&cli.StringFlag{Name: "prefix", Value: cfg.Storage.ReportPrefix, Usage: "Object key prefix for uploaded reports"},
				),
				Action: func(c *cli.Context) error {
					return runExport(c, cfg.Storage)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics failed")
	}
}

func requestFromFlags(c *cli.Context) (domain.ForecastRequest, error) {
	month, err := parseMonthFlag(c.String("month"))
	if err != nil {
		return domain.ForecastRequest{}, err
	}
	req := domain.ForecastRequest{Year: c.Int("year"), Month: month, Holidays: c.Int("holidays")}
	return req, req.Validate()
}

// parseMonthFlag accepts "3", "March" or "march".
func parseMonthFlag(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	if n, ok := domain.ParseMonth(raw); ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, raw)
}

func fetchAnalysis(c *cli.Context, top int) (domain.ForecastRequest, domain.Analysis, error) {
	req, err := requestFromFlags(c)
	if err != nil {
		return req, domain.Analysis{}, err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout")+time.Second)
	defer cancel()

	resp, err := client.NewForecastClient(c.String("forecast-url"), c.Duration("timeout")).Fetch(ctx, req)
	if err != nil {
		return req, domain.Analysis{}, err
	}
	return req, analytics.AnalyzeTop(resp, top), nil
}

func runAnalyze(c *cli.Context) error {
	req, a, err := fetchAnalysis(c, c.Int("top"))
	if err != nil {
		return err
	}

	out := c.App.Writer
	switch c.String("format") {
	case "csv":
		return report.WriteCSV(out, req, a)
	case "json":
		return writeJSON(out, req, a)
	case "text":
		return writeText(out, req, a)
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
}

func runExport(c *cli.Context, storageCfg config.StorageConfig) error {
	req, a, err := fetchAnalysis(c, analytics.DefaultTopN)
	if err != nil {
		return err
	}

	if output := c.String("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, req, a); err != nil {
			return err
		}
		logger.Log.Info().Str("file", output).Msg("Report written")
		return nil
	}

	if !storageCfg.Enabled {
		return report.ErrStorageDisabled
	}
	objects, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  storageCfg.Endpoint,
		AccessKey: storageCfg.AccessKey,
		SecretKey: storageCfg.SecretKey,
		Bucket:    storageCfg.Bucket,
		Region:    storageCfg.Region,
		UseSSL:    storageCfg.UseSSL,
	})
	if err != nil {
		return err
	}

	key, err := report.NewExporter(objects, c.String("prefix")).Export(c.Context, req, a)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}
