package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"time"

	"github.com/Black179/Digi-gold/internal/common"
	"github.com/Black179/Digi-gold/internal/config"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func main() {
	name := flag.String("name", "", "Full name of the user")
	email := flag.String("email", "", "Email address of the user")
	withSession := flag.Bool("session", false, "Also create a session and print the bearer token")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if err := validateName(*name); err != nil {
		zap.L().Fatal("Invalid name", zap.Error(err))
	}
	if err := validateEmail(*email); err != nil {
		zap.L().Fatal("Invalid email", zap.Error(err))
	}

	cfg := config.Load()
	ctx := context.Background()

	dbService, err := common.InitializeDatabaseOnly(ctx, &cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	user, err := dbService.CreateUser(ctx, *name, *email)
	if err != nil {
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	fmt.Printf("Created user %s <%s>\n", user.Name, user.Email)
	fmt.Printf("  id: %s\n", user.Id)

	if *withSession {
		session, err := dbService.CreateSession(ctx, user.Id, 24*time.Hour)
		if err != nil {
			zap.L().Fatal("Failed to create session", zap.Error(err))
		}
		fmt.Printf("  token: %s (expires %s)\n", session.Token, session.ExpiresAt.UTC().Format(time.RFC3339))
	}
}
