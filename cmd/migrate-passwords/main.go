// Migration script to hash existing passwords
// cmd/migrate-passwords/main.go
package main

import (
	"log"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	if err := config.InitDB(); err != nil {
		config.Log.Fatal("database unavailable", zap.Error(err))
	}

	var users []models.User
	if err := config.DB.Where("delete_at IS NULL").Find(&users).Error; err != nil {
		config.Log.Fatal("failed to fetch users", zap.Error(err))
	}

	updated := 0
	for _, user := range users {
		if utils.IsHashed(user.Password) {
			continue
		}
		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			config.Log.Warn("hash failed", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		if err := config.DB.Model(&models.User{}).Where("user_id = ?", user.UserID).Update("password", hashed).Error; err != nil {
			config.Log.Warn("update failed", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		updated++
		config.Log.Info("password hashed", zap.String("email", user.Email))
	}

	config.Log.Info("password migration completed", zap.Int("updated", updated), zap.Int("total", len(users)))
}
