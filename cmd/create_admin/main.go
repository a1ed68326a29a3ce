package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"loyalty_backend/internal/db"
	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/logger"
	"loyalty_backend/internal/repository"
	"loyalty_backend/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// create_admin registers an account (or reuses an existing one) and promotes it to Admin.
func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	mobile := flag.String("mobile", "", "admin mobile number")
	name := flag.String("name", "Admin", "display name")
	email := flag.String("email", "admin@example.com", "email address")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	pool := db.MustConnect(dsn, 2)
	defer pool.Close()

	tokens, err := service.NewTokenIssuer(secret, 0)
	if err != nil {
		logger.Fatal("jwt setup failed", "error", err)
	}
	users := service.NewUserService(repository.NewUserRepository(pool), service.NewPasswordHasher(bcrypt.DefaultCost), tokens)
	ctx := context.Background()

	u, err := users.ByMobile(ctx, *mobile)
	if errors.Is(err, domain.ErrNotFound) {
		u, err = users.Register(ctx, service.RegisterInput{
			Mobile:   *mobile,
			Name:     *name,
			Email:    *email,
			Password: *password,
		})
	}
	if err != nil {
		logger.Fatal("load or create user failed", "mobile", *mobile, "error", err)
	}

	if err := users.Promote(ctx, u.ID); err != nil {
		logger.Fatal("promote failed", "user_id", u.ID, "error", err)
	}
	u.Role = domain.RoleAdmin

	token, err := users.IssueToken(u)
	if err != nil {
		logger.Fatal("issue token failed", "error", err)
	}
	logger.Info("admin ready", "user_id", u.ID, "mobile", u.Mobile)
	fmt.Println(token)
}
