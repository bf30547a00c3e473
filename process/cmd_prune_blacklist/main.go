package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"budgettracker/process/prune"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	ttl := flag.Duration("refresh-ttl", 24*time.Hour, "refresh token lifetime; older blacklist rows are removed")
	dry := flag.Bool("dry-run", false, "only count the rows that would be removed")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set")
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" && !isFlagSet("refresh-ttl") {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid REFRESH_TOKEN_TTL: %v", err)
		}
		*ttl = d
	}
	cutoff, err := prune.Cutoff(time.Now(), *ttl)
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if *dry {
		n, err := prune.CountStale(ctx, db, cutoff)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("dry-run: %d blacklist rows older than %s\n", n, cutoff.Format(time.RFC3339))
		return
	}
	n, err := prune.Blacklist(ctx, db, cutoff)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("prune done: blacklist rows deleted=%d\n", n)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
