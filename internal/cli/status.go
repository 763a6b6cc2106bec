package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/payroll/internal/core/config"
	"github.com/vietddude/payroll/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show payroll record counts per period and status",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx, `
		SELECT year, month, status, COUNT(*), COALESCE(SUM(net_pay), 0)
		FROM payroll_records
		GROUP BY year, month, status
		ORDER BY year DESC, month DESC, status`)
	if err != nil {
		slog.Error("Failed to query payroll records", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "PERIOD\tSTATUS\tRECORDS\tNET TOTAL")

	for rows.Next() {
		var year, month, count, netTotal int64
		var status string
		if err := rows.Scan(&year, &month, &status, &count, &netTotal); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%04d-%02d\t%s\t%d\t%d\n", year, month, status, count, netTotal)
	}
	_ = w.Flush()
}
