package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/corkboard-app/corkboard/internal/app"
	"github.com/corkboard-app/corkboard/internal/auth"
	"github.com/corkboard-app/corkboard/internal/platform/db"
)

// Seeds the bootstrap accounts a fresh deployment needs: without at least one
// admin row, the /api/users surface is unreachable. Safe to re-run; existing
// accounts are never modified.
func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	conn, err := db.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	repo := auth.NewRepository(conn)
	service := auth.NewService(repo, auth.NewSessionStore(repo, cfg.SessionTTL))

	fmt.Println("→ Seeding accounts...")
	accounts := []struct {
		email    string
		password string
	}{
		{getenv("ADMIN_EMAIL", "admin@corkboard.local"), getenv("ADMIN_PASSWORD", "admin123")},
	}
	for _, account := range accounts {
		user, err := service.EnsureAdmin(ctx, account.email, account.password)
		if err != nil {
			log.Fatalf("seed account %s: %v", account.email, err)
		}
		slog.Default().Info("account ready",
			slog.String("email", user.Email), slog.String("role", string(user.Role)))
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
