package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/config"
	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/storage/postgres"
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin [email] [password]",
	Short: "Create the initial admin user",
	Args:  cobra.ExactArgs(2),
	Run:   runBootstrapAdmin,
}

func init() {
	rootCmd.AddCommand(bootstrapAdminCmd)
}

func runBootstrapAdmin(cmd *cobra.Command, args []string) {
	email, password := args[0], args[1]
	if len(password) < 8 {
		fmt.Println("Password must be at least 8 characters")
		os.Exit(1)
	}

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

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := postgres.NewUserRepo(db)
	if err := repo.Save(ctx, user); err != nil {
		slog.Error("Failed to create admin user", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully created admin user %s\n", email)
}
