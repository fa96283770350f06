// Seed provisions the single admin account. Users are never created through
// the API, so this is the only way in. Re-running rotates the admin password.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/config"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	adminUsername = "admin"
	adminEmail    = "raj@rajkumar.dev"
	bcryptCost    = 12
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	repos := postgres.NewRepositories(db)
	ctx := context.Background()

	password, err := randomPassword()
	if err != nil {
		log.Fatalf("failed to generate password: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	existing, err := repos.User.GetByUsername(ctx, adminUsername)
	switch {
	case err == nil:
		log.Println("admin user already exists, rotating password")
		existing.PasswordHash = string(hashed)
		existing.UpdatedAt = time.Now()
		if err := repos.User.Update(ctx, existing); err != nil {
			log.Fatalf("failed to update admin user: %v", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		email := adminEmail
		user := &domain.User{
			ID:           uuid.New(),
			Username:     adminUsername,
			PasswordHash: string(hashed),
			Role:         domain.RoleAdmin,
			Email:        &email,
			Verified:     true,
			SocialLinks: datatypes.JSON([]byte(
				`{"github":"https://github.com/rajkumar","linkedin":"https://linkedin.com/in/rajkumar"}`,
			)),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := repos.User.Create(ctx, user); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
	default:
		log.Fatalf("failed to look up admin user: %v", err)
	}

	fmt.Println("Admin user ready.")
	fmt.Printf("  Username: %s\n", adminUsername)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println("Save this password; it will not be shown again.")
}

func randomPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	s := base64.StdEncoding.EncodeToString(buf)
	if len(s) > 16 {
		s = s[:16]
	}
	return s, nil
}
