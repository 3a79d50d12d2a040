package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"taskquest/internal/config"
	"taskquest/internal/db"
	"taskquest/internal/domain"
	"taskquest/internal/logger"
	"taskquest/internal/service"
)

func main() {
	username := flag.String("username", "testuser", "username")
	password := flag.String("password", "testpass", "password")
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Options{Level: cfg.LogLevel})

	store := db.OpenStore(cfg)
	defer store.Close()

	ctx := context.Background()
	auth := service.NewAuthService(store, service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL))

	// try to create; an existing user is fine
	u, err := auth.Signup(ctx, *username, *username+"@example.com", *password)
	switch {
	case err == nil:
		log.Printf("user created id=%d\n", u.ID)
	case errors.Is(err, service.ErrConflictDuplicate):
		log.Printf("user %s already exists\n", *username)
	default:
		log.Fatalf("create user failed: %v", err)
	}

	token, u2, err := auth.Login(ctx, *username, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	log.Printf("fetched user id=%d username=%s total_exp=%d created_at=%v\n", u2.ID, u2.Username, u2.TotalExp, u2.CreatedAt)

	// verify the token round-trips
	id, err := auth.Authenticate(token)
	if err != nil || id != (domain.Identity{UserID: u2.ID, Username: u2.Username}) {
		log.Fatalf("token does not verify: %v", err)
	}
	log.Printf("token=%s\n", token)
}
