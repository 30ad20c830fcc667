package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jasanvivian/solepos/internal/api"
	"github.com/jasanvivian/solepos/internal/db"
	"github.com/jasanvivian/solepos/internal/store"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: solepos <init|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: solepos <init|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

// envOr returns the environment variable's value, or fallback if unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", envOr("SOLEPOS_DB", "solepos.sqlite3"), "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		database.Close()
		os.Remove(*dbPath)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Register the first admin through POST /api/auth/register")
	fmt.Println("using the admin secret (ADMIN_SECRET environment variable).")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", envOr("SOLEPOS_DB", "solepos.sqlite3"), "path to SQLite database file")
	addr := fs.String("addr", envOr("SOLEPOS_ADDR", ":8080"), "listen address")
	tzName := fs.String("tz", envOr("SOLEPOS_TZ", "UTC"), "reporting timezone (IANA name)")
	corsOrigin := fs.String("cors-origin", envOr("SOLEPOS_CORS_ORIGIN", "http://localhost:3000"), "allowed CORS origin (empty to disable)")
	fs.Parse(args)

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", *tzName, err)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Migrations are idempotent, so a missing database is simply created.
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// JWT secret: env override, otherwise persisted in the settings table so
	// tokens survive restarts.
	jwtSecret := os.Getenv("SOLEPOS_JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			log.Fatalf("Failed to load JWT secret: %v", err)
		}
	}

	adminSecret := os.Getenv("ADMIN_SECRET")
	if adminSecret == "" {
		log.Fatal("ADMIN_SECRET must be set (required to register admin accounts)")
	}

	handler := api.NewRouter(database, api.Config{
		JWTSecret:   jwtSecret,
		AdminSecret: adminSecret,
		CORSOrigin:  *corsOrigin,
		Location:    loc,
	})

	slog.Info("server listening", "addr", *addr, "tz", loc.String())
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
