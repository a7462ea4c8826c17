package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/config"
)

// token prints a signed bearer token for a user id, for local testing
// against a running server.
func main() {
	userID := flag.String("user", "", "user id to place in the token subject")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <id>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	signed, err := auth.GenerateToken(cfg.JWTSecret, *userID)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(signed)
}
