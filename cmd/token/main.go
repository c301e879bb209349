package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/variant-reservation/config"
	"github.com/ikkim/variant-reservation/internal/middleware"
	"github.com/ikkim/variant-reservation/pkg/util"
)

// Mints a bearer token for a stock writer such as a warehouse sync job.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/token/main.go <subject> [stock_writer|admin]")
	}

	subject := os.Args[1]
	role := middleware.RoleStockWriter
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if role != middleware.RoleStockWriter && role != middleware.RoleAdmin {
		log.Fatalf("Unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	token, err := util.GenerateToken(subject, role, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	fmt.Println(token)
}
