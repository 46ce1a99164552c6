package main

import (
	"log"

	"smartlearn/config"
	authController "smartlearn/controllers/auth"
	progressController "smartlearn/controllers/progress"
	"smartlearn/database"
	adminRoutes "smartlearn/routers/adminRoutes"
	authRoutes "smartlearn/routers/authRoutes"
	certificateRoutes "smartlearn/routers/certificateRoutes"
	courseRoutes "smartlearn/routers/courseRoutes"
	enrollmentRoutes "smartlearn/routers/enrollmentRoutes"
	progressRoutes "smartlearn/routers/progressRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	authController.EnsureAdminUser()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	// Nightly reconciliation keeps stored percentages honest after lesson
	// edits and deletions
	progressController.StartProgressScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
