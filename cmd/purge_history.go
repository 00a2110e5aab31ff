package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/facilops/chamados-service/internal/config"
	"github.com/facilops/chamados-service/internal/database"
	"github.com/facilops/chamados-service/internal/service"
	"github.com/facilops/chamados-service/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var purgeHistoryCmd = &cobra.Command{
	Use:   "purge-history",
	Short: "Physically remove all completed chamados (irreversible)",
	RunE:  runPurgeHistory,
}

func init() {
	rootCmd.AddCommand(purgeHistoryCmd)
}

func runPurgeHistory(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	svc := service.NewChamadoService(store.New(db), cfg.Location())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	n, err := svc.PurgeCompleted(ctx)
	if err != nil {
		return fmt.Errorf("purge history: %w", err)
	}
	log.Printf("purge-history: removed %d completed chamados", n)
	return nil
}
