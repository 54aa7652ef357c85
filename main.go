package main

import (
	"fmt"
	"os"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/routes"
	"gestpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	config.SetupLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Subscription{},
		&models.Invoice{},
		&models.Payment{},
		&models.Quote{},
		&models.AccountingDossier{},
		&models.DetailedCharge{},
		&models.ClientEntry{},
		&models.Charge{},
		&models.TimeSheet{},
		&models.SalaryForecast{},
		&models.Notification{},
	)
}

func main() {
	scheduler := services.StartScheduler(config.DB, services.DefaultNotifier())
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)

	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
