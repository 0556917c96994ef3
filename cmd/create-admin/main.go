package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/config"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/service"
)

// create-admin -email admin@example.com -password '...'
// 密码也可以通过 ADMIN_PASSWORD 传入，避免出现在 shell 历史里。
func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := repository.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	svc := service.NewAuthService(repository.NewAdminRepository(db), auth.NewSigner(cfg.SessionSecret, cfg.SessionTTL), nil)
	u, err := svc.CreateAdmin(context.Background(), *email, *password)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("admin %d created: %s\n", u.ID, u.Email)
}
