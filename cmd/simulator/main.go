package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// Synthetic fleet parameters. Vibration is on the roughness-index
// scale the risk assessor thresholds use: a hard ride reads well above
// the 0.8 alert level, a normal ride stays below it.
const (
	fleetSize       = 100
	historyDays     = 90
	maxRidesPerDay  = 4
	hardRideChance  = 0.15
	longRideChance  = 0.2
	rainChance      = 0.2
	failureProne    = 0.7 // share of bikes that ever need a part replaced
	minServiceGap   = 7   // days between replacements on one bike
	failureLagMin   = 5   // days from hard ride to replacement
	failureLagMax   = 14
)

var dockStations = []models.Location{
	{Lat: 40.7128, Lon: -74.0060},
	{Lat: 40.7306, Lon: -73.9866},
	{Lat: 40.7484, Lon: -73.9857},
	{Lat: 40.7589, Lon: -73.9851},
	{Lat: 40.7061, Lon: -74.0087},
	{Lat: 40.7265, Lon: -74.0030},
}

func jitter(base models.Location) models.Location {
	return models.Location{
		Lat: base.Lat + (rand.Float64()-0.5)*0.01,
		Lon: base.Lon + (rand.Float64()-0.5)*0.01,
	}
}

func randomDock() models.Location {
	return jitter(dockStations[rand.Intn(len(dockStations))])
}

var authToken string

func authorizedPost(url string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

// login registers (or reuses) the simulator account and keeps its token.
func login(apiURL string) error {
	register := models.RegisterRequest{
		Username:  "simulator",
		Email:     "simulator@fleet.example.com",
		Password:  "simulator-pass",
		FirstName: "Fleet",
		LastName:  "Simulator",
		Role:      models.RoleAdmin,
	}
	if resp, err := authorizedPost(apiURL+"/api/auth/register", register); err == nil {
		resp.Body.Close()
	}

	resp, err := authorizedPost(apiURL+"/api/auth/login", models.LoginRequest{
		Username: "simulator",
		Password: "simulator-pass",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var loginResp models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return err
	}
	authToken = loginResp.Token
	return nil
}

func createBike(apiURL string, bikeID int64) error {
	bike := models.Bike{
		BikeID:        bikeID,
		Status:        models.StatusActive,
		PurchasedDate: time.Now().AddDate(0, 0, -(100 + rand.Intn(265))),
	}
	resp, err := authorizedPost(apiURL+"/api/bikes", bike)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("create bike returned status %d", resp.StatusCode)
	}
	return nil
}

func postRide(apiURL string, ride models.RideRequest) error {
	resp, err := authorizedPost(apiURL+"/api/rides", ride)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("log ride returned status %d", resp.StatusCode)
	}
	return nil
}

func postMaintenance(apiURL string, req models.MaintenanceRequest) error {
	resp, err := authorizedPost(apiURL+"/api/maintenance", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("record maintenance returned status %d", resp.StatusCode)
	}
	return nil
}

// makeRide draws one synthetic ride ending at end. Hard rides carry a
// vibration reading above the assessor's alert level.
func makeRide(bikeID int64, end time.Time, hard bool) models.RideRequest {
	distance := 0.5 + rand.Float64()*4.5
	if rand.Float64() < longRideChance {
		distance = 1 + rand.Float64()*14
	}
	vibration := 0.05 + rand.Float64()*0.65
	if hard {
		vibration = 0.8 + rand.Float64()*1.2
	}
	weather := "clear"
	if rand.Float64() < rainChance {
		weather = "rain"
	}

	return models.RideRequest{
		BikeID:           bikeID,
		StartTime:        end.Add(-time.Duration(1+rand.Intn(5)) * time.Hour),
		EndTime:          end,
		StartLocation:    randomDock(),
		EndLocation:      randomDock(),
		DistanceKM:       distance,
		AvgVibration:     &vibration,
		WeatherCondition: weather,
	}
}

// simulateBike replays a bike's history day by day. Hard rides on
// failure-prone bikes lead to a part replacement a few days later.
func simulateBike(apiURL string, bikeID int64) (rides, services int) {
	now := time.Now()
	current := now.AddDate(0, 0, -historyDays)
	lastService := current.AddDate(0, 0, -(10 + rand.Intn(20)))
	prone := rand.Float64() < failureProne
	components := []string{"brake", "chain", "tire"}

	for current.Before(now) {
		for i := 0; i < rand.Intn(maxRidesPerDay+1); i++ {
			hard := rand.Float64() < hardRideChance
			ride := makeRide(bikeID, current, hard)
			if err := postRide(apiURL, ride); err != nil {
				log.WithError(err).WithField("bike_id", bikeID).Warn("failed to log ride")
				continue
			}
			rides++

			if prone && hard && current.Sub(lastService) > minServiceGap*24*time.Hour {
				failureDate := current.AddDate(0, 0, failureLagMin+rand.Intn(failureLagMax-failureLagMin+1))
				if failureDate.Before(now) {
					req := models.MaintenanceRequest{
						BikeID:          bikeID,
						MaintenanceDate: failureDate,
						Component:       components[rand.Intn(len(components))],
						Action:          models.ActionReplaced,
					}
					if err := postMaintenance(apiURL, req); err != nil {
						log.WithError(err).WithField("bike_id", bikeID).Warn("failed to record maintenance")
					} else {
						services++
						lastService = failureDate
					}
				}
			}
		}
		current = current.AddDate(0, 0, 1)
	}
	return rides, services
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	if err := login(apiURL); err != nil {
		log.WithError(err).Fatal("failed to authenticate simulator")
	}

	var totalRides, totalServices int
	for bikeID := int64(1); bikeID <= fleetSize; bikeID++ {
		if err := createBike(apiURL, bikeID); err != nil {
			log.WithError(err).WithField("bike_id", bikeID).Fatal("failed to create bike")
		}
		rides, services := simulateBike(apiURL, bikeID)
		totalRides += rides
		totalServices += services
	}

	log.WithFields(log.Fields{
		"bikes":    fleetSize,
		"rides":    totalRides,
		"services": totalServices,
	}).Info("synthetic fleet generation complete")
}
