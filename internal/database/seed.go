package database

import (
	"errors"
	"fmt"

	"modqueue/internal/models"
	"modqueue/internal/util"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Seed creates the default administrator and demo user accounts if they
// do not exist yet. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	seeds := []struct {
		email    string
		password string
		role     models.Role
	}{
		{"admin@example.com", "password123", models.RoleAdmin},
		{"user@example.com", "password123", models.RoleUser},
	}

	for _, s := range seeds {
		var existing models.User
		err := db.Where("email = ?", s.email).First(&existing).Error
		if err == nil {
			logrus.WithField("email", s.email).Info("seed account already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup %s: %w", s.email, err)
		}

		hash, err := util.HashPassword(s.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.email, err)
		}
		user := models.User{
			Email:        s.email,
			PasswordHash: &hash,
			PasswordSet:  true,
			Role:         s.role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.email, err)
		}
		logrus.WithFields(logrus.Fields{
			"email": s.email,
			"role":  s.role,
		}).Info("seed account created")
	}

	return nil
}
