// Command analyze derives journey durations from a commute database and
// writes the CSV tables used for plotting.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jengzang/commutetrackr-go/internal/api"
	"github.com/jengzang/commutetrackr-go/internal/analysis/commute"
	"github.com/jengzang/commutetrackr-go/internal/config"
	"github.com/jengzang/commutetrackr-go/internal/database"
	"github.com/jengzang/commutetrackr-go/internal/export"
	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/repository"
	"github.com/jengzang/commutetrackr-go/internal/service"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", "", "path to a local commute database")
	url := flag.String("url", strings.TrimRight(cfg.TrackerURL, "/")+"/commutetrackr.db", "tracker URL to download the database from when -db is not set")
	outDir := flag.String("out", "output", "directory for the CSV files")
	from := flag.String("from", "", "first date to include (YYYY-MM-DD)")
	to := flag.String("to", "", "last date to include (YYYY-MM-DD)")
	flag.Parse()

	filter := models.LogFilter{From: *from, To: *to}
	if err := filter.Validate(); err != nil {
		log.Fatal("Invalid date range:", err)
	}

	ctx := context.Background()

	path := *dbPath
	if path == "" {
		tmp, err := os.MkdirTemp("", "commutetrackr-")
		if err != nil {
			log.Fatal("Failed to create temp dir:", err)
		}
		defer os.RemoveAll(tmp)

		path = filepath.Join(tmp, "commutetrackr.db")
		if err := download(ctx, *url, path); err != nil {
			log.Fatal("Failed to download database:", err)
		}
		log.Printf("Downloaded database from %s", *url)
	}

	conn, err := database.Open(database.Config{Path: path})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer conn.Close()

	deriver, err := commute.NewDeriver(api.DeriverConfig(cfg))
	if err != nil {
		log.Fatal("Invalid commute config:", err)
	}
	analysis := service.NewAnalysisService(repository.NewCommuteRepository(conn), deriver)

	report, err := analysis.Run(ctx, filter)
	if err != nil {
		log.Fatal("Analysis failed:", err)
	}

	fmt.Printf("Total time spent commuting: %s\n", report.Total)

	err = export.WriteAll(*outDir, export.Tables{
		Rows:          report.Rows,
		Totals:        report.Totals,
		Distributions: report.Distributions(),
		Calendar:      analysis.Calendar(report),
	})
	if err != nil {
		log.Fatal("Export failed:", err)
	}
}

func download(ctx context.Context, url, path string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
