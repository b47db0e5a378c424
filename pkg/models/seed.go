package models

import (
	"errors"

	"gorm.io/gorm"
)

// SeedUsers ensures the three built-in accounts exist. Existing rows are
// left untouched so operators can rotate the default passwords.
func SeedUsers(db *gorm.DB) error {
	defaults := []struct {
		Username string
		Password string
		Role     string
	}{
		{AdminUsername, "admin", RoleAdmin},
		{"planner", "planner", RolePlanner},
		{"commuter", "commuter", RoleCommuter},
	}

	for _, account := range defaults {
		var existing User
		err := db.Where("username = ?", account.Username).First(&existing).Error

		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := User{
			Username: account.Username,
			Role:     account.Role,
			Active:   true,
		}
		if err := user.SetPassword(account.Password); err != nil {
			return err
		}

		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
