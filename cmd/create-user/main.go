// Command create-user provisions an account from the command line, typically
// the first administrator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		in      services.CreateUserInput
		migrate bool
	)
	flag.StringVar(&in.Email, "email", "", "account email (required)")
	flag.StringVar(&in.Password, "password", os.Getenv("CREATE_USER_PASSWORD"), "initial password (or CREATE_USER_PASSWORD)")
	flag.StringVar(&in.FirstName, "first-name", "System", "first name")
	flag.StringVar(&in.LastName, "last-name", "Administrator", "last name")
	flag.StringVar(&in.Role, "role", "admin", "faculty|researcher|admin|dean|vc")
	flag.StringVar(&in.Department, "department", "", "department (required for faculty and deans)")
	flag.BoolVar(&migrate, "migrate", false, "run AutoMigrate before creating the user")
	flag.Parse()

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	if err := config.InitDB(); err != nil {
		config.Log.Fatal("database unavailable", zap.Error(err))
	}
	if migrate {
		if err := config.DB.AutoMigrate(models.All()...); err != nil {
			config.Log.Fatal("auto migrate failed", zap.Error(err))
		}
	}

	user, err := services.NewUserService(config.DB).Create(context.Background(), in)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintln(os.Stderr, "invalid input:", ve.Error())
			os.Exit(2)
		}
		config.Log.Fatal("create user failed", zap.Error(err))
	}
	config.Log.Info("user created",
		zap.Uint("user_id", user.UserID),
		zap.String("email", user.Email),
		zap.String("role", user.RoleName()))
}
