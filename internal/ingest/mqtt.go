// Package ingest receives completed rides from dock controllers over
// MQTT and appends them to the history store, the same write path the
// HTTP handler uses.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bike-fleet-maintenance/internal/db"
	"github.com/ukydev/bike-fleet-maintenance/internal/models"
)

// rideTopic matches fleet/<bike_id>/rides.
const rideTopic = "fleet/+/rides"

const insertTimeout = 10 * time.Second

var (
	ErrBadTopic   = errors.New("ride topic must be fleet/<bike_id>/rides")
	ErrBadPayload = errors.New("invalid ride payload")
)

// Subscriber consumes ride reports from dock controllers.
type Subscriber struct {
	client mqtt.Client
	store  db.HistoryStore
}

// NewSubscriber creates an MQTT subscriber for ride ingestion.
func NewSubscriber(brokerURL, clientID string, store db.HistoryStore) *Subscriber {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	return &Subscriber{
		client: mqtt.NewClient(opts),
		store:  store,
	}
}

// Start connects to the broker and subscribes to ride reports.
func (s *Subscriber) Start() error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	if token := s.client.Subscribe(rideTopic, 1, s.handleRide); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe: %w", token.Error())
	}
	log.WithField("topic", rideTopic).Info("ride ingestion subscribed")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handleRide(_ mqtt.Client, msg mqtt.Message) {
	ride, err := ParseRideMessage(msg.Topic(), msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("dropping ride message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	rideID, err := s.store.InsertRide(ctx, ride)
	if err != nil {
		log.WithError(err).WithField("bike_id", ride.BikeID).Error("failed to store ride from broker")
		return
	}
	log.WithFields(log.Fields{"bike_id": ride.BikeID, "ride_id": rideID}).Debug("ride ingested")
}

// ParseRideMessage turns a dock controller message into a ride. The
// bike id comes from the topic, which is authoritative over anything
// in the payload.
func ParseRideMessage(topic string, payload []byte) (models.Ride, error) {
	bikeID, err := BikeIDFromTopic(topic)
	if err != nil {
		return models.Ride{}, err
	}

	var req models.RideRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return models.Ride{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if req.EndTime.Before(req.StartTime) {
		return models.Ride{}, fmt.Errorf("%w: end_time before start_time", ErrBadPayload)
	}
	if req.DistanceKM < 0 {
		return models.Ride{}, fmt.Errorf("%w: negative distance_km", ErrBadPayload)
	}
	if req.AvgVibration != nil && *req.AvgVibration < 0 {
		return models.Ride{}, fmt.Errorf("%w: negative avg_vibration", ErrBadPayload)
	}

	return models.Ride{
		BikeID:           bikeID,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		StartLocation:    req.StartLocation,
		EndLocation:      req.EndLocation,
		DistanceKM:       req.DistanceKM,
		AvgVibration:     req.AvgVibration,
		WeatherCondition: req.WeatherCondition,
	}, nil
}

// BikeIDFromTopic extracts the bike id from a fleet/<bike_id>/rides topic.
func BikeIDFromTopic(topic string) (int64, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "fleet" || parts[2] != "rides" {
		return 0, fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	bikeID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || bikeID <= 0 {
		return 0, fmt.Errorf("%w: bad bike id in %q", ErrBadTopic, topic)
	}
	return bikeID, nil
}
