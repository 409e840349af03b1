package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/auth"
	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/features"
	"github.com/ukydev/bike-fleet-maintenance/internal/handlers"
	"github.com/ukydev/bike-fleet-maintenance/internal/ingest"
	"github.com/ukydev/bike-fleet-maintenance/internal/middleware"
	"github.com/ukydev/bike-fleet-maintenance/internal/risk"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	log.Info("connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "bike_maintenance"
	}
	database := client.Database(dbName)
	store := db.NewMongoHistoryStore(database)
	userCollection := &db.MongoUserCollection{Collection: database.Collection("users")}

	// The classifier artifact is optional. No artifact means every
	// scoring call uses the heuristic strategy; that is a deployment
	// state, not a startup failure.
	var classifier *risk.Classifier
	modelPath := os.Getenv("MODEL_PATH")
	if modelPath == "" {
		modelPath = "prod_model/model.json"
	}
	classifier, err = risk.LoadArtifact(modelPath)
	if err != nil {
		log.WithError(err).WithField("path", modelPath).Warn("no classifier artifact, falling back to heuristic scoring")
		classifier = nil
	} else {
		log.WithField("version", classifier.ModelVersion()).Info("classifier artifact loaded")
	}

	engine := risk.NewEngine(features.NewAggregator(store), classifier)

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	bikeHandler := handlers.NewBikeHandler(store)
	rideHandler := handlers.NewRideHandler(store)
	maintenanceHandler := handlers.NewMaintenanceHandler(store)
	predictionHandler := handlers.NewPredictionHandler(store, engine)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.Handle("/api/bikes", bikeHandler)
	mux.Handle("/api/rides", authMiddleware.RequirePermission("log_ride")(rideHandler))
	mux.Handle("/api/maintenance", authMiddleware.RequirePermission("create_maintenance")(maintenanceHandler))
	mux.Handle("/api/predictions", authMiddleware.RequirePermission("view_predictions")(predictionHandler))
	mux.HandleFunc("/api/health", handlers.HealthHandler)

	// Dock controllers report rides over MQTT when a broker is
	// configured; the HTTP endpoint stays available either way.
	if brokerURL := os.Getenv("MQTT_BROKER"); brokerURL != "" {
		subscriber := ingest.NewSubscriber(brokerURL, "bike-maintenance-api", store)
		if err := subscriber.Start(); err != nil {
			log.WithError(err).Error("ride ingestion unavailable, continuing with HTTP only")
		} else {
			defer subscriber.Stop()
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, authMiddleware.Authenticate(mux)))
}
