package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// EffectEvent is the mirror payload published for every dispatched side
// effect when EFFECT_PUBSUB_MIRROR is enabled.
type EffectEvent struct {
	RecordId      int       `json:"record_id"`
	BookingId     string    `json:"booking_id"`
	RiderId       int       `json:"rider_id"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	Payload       []byte    `json:"payload"`
	DispatchedAt  time.Time `json:"dispatched_at"`
	CorrelationId string    `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getEffectTopicID() string {
	if v := os.Getenv("EFFECT_PUBSUB_TOPIC"); v != "" {
		return v
	}
	return "fieldops-effects"
}

// GetPubSubClient returns a Pub/Sub client, initializing on first use.
// It uses Application Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Uses Application Default Credentials (Cloud Run service account or GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}
	pubsubClient = c
	log.Printf("pubsub client ready (project_id=%s)", projectID)
	return pubsubClient, nil
}

// PublishEffectEventWithResult publishes an effect mirror event and waits for
// the server-assigned message id. Callers treat failures as retryable.
func PublishEffectEventWithResult(ctx context.Context, bookingId string, ev EffectEvent) (string, error) {
	c, err := GetPubSubClient(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}

	topic := c.Topic(getEffectTopicID())
	res := topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"booking_id": bookingId,
			"kind":       ev.Kind,
		},
	})
	return res.Get(ctx)
}
