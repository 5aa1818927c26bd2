package main

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"Backend-Rhea/src/database"
	"Backend-Rhea/src/jobs"
	"Backend-Rhea/src/routes"
	"Backend-Rhea/src/seeder"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

func main() {

	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	database.InitRedis()
	database.InitAsynq()
	jobs.StartWorker()

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seeder.SeedDemoData(); err != nil {
			log.Println("Seeding failed:", err)
		}
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app)

	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888"
	}

	log.Println("Server is running on port " + appURI)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI)))
	if err != nil {
		log.Fatal(err)
	}

}
