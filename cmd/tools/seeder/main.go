package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedPlans(ctx, pool)

	log.Println("Seeding completed successfully!")
}

func seedPlans(ctx context.Context, pool *pgxpool.Pool) {
	plans := []struct {
		id      string
		name    string
		monthly int64
		refresh string
		active  bool
	}{
		{"studio", "Studio", 30_000, "biannual", true},
		{"essentials", "Essentials", 45_000, "quarterly", true},
		{"signature", "Signature", 75_000, "quarterly", true},
		{"heritage", "Heritage", 120_000, "biannual", false},
	}

	for _, p := range plans {
		_, err := pool.Exec(ctx, `
			INSERT INTO subscription_plans (id, name, monthly_price, refresh_frequency, active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				monthly_price = EXCLUDED.monthly_price,
				refresh_frequency = EXCLUDED.refresh_frequency,
				active = EXCLUDED.active`,
			p.id, p.name, p.monthly, p.refresh, p.active)
		if err != nil {
			log.Fatalf("Failed to seed plan %s: %v", p.id, err)
		}
		log.Printf("Seeded plan %s", p.id)
	}
}
