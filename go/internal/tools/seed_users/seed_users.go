package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goosetap/goosetap/go/internal/dbconfig"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUser mirrors the JSON snapshot structure
type SeedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func main() {
	path := "go/internal/assets/users.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var seedUsers []SeedUser
	if err := json.Unmarshal(data, &seedUsers); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert and count
	var (
		total    = len(seedUsers)
		inserted int
		skipped  int
		errs     int
	)

	for _, u := range seedUsers {
		id := u.ID
		if id == "" {
			id = uuid.New().String()
		}
		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO users (id, username, role)
            VALUES ($1, $2, $3)
            ON CONFLICT (username) DO NOTHING
        `, id, u.Username, u.Role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting user %s: %v\n", u.Username, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Users seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
