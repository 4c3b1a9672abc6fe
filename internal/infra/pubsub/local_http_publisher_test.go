package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/config"
	"marketplace/internal/domain/constants"
	"marketplace/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_Publish(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	event := &service.MarketplaceEvent{
		RequestID:  "req-1",
		Type:       constants.EventProductPurchased,
		SubjectID:  "product-1",
		ActorID:    "buyer-1",
		Attributes: map[string]string{"quantity": "2"},
		OccurredAt: time.Now().UTC(),
	}

	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, constants.EventProductPurchased, received.Message.Attributes["type"])
	assert.Equal(t, "product-1", received.Message.Attributes["subject_id"])
	assert.Equal(t, "2", received.Message.Attributes["quantity"])
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.MarketplaceEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.SubjectID, decoded.SubjectID)
	assert.Equal(t, event.ActorID, decoded.ActorID)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, testLogger())
	err := publisher.Publish(context.Background(), &service.MarketplaceEvent{Type: constants.EventProductCreated})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "non-success status: 500")
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
	}{
		{"not configured", nil, false},
		{"local without endpoint", &config.PubSubConfig{Provider: constants.PubSubProviderLocal}, true},
		{"local", &config.PubSubConfig{Provider: constants.PubSubProviderLocal, LocalEndpoint: "http://localhost:9999/push"}, false},
		{"google without project", &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "events"}, true},
		{"unknown provider", &config.PubSubConfig{Provider: "kafka"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: &config.Config{PubSub: tt.cfg},
				Logger: testLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, publisher)
			if tt.cfg == nil {
				assert.NoError(t, publisher.Publish(context.Background(), &service.MarketplaceEvent{Type: constants.EventIdentityCreated}))
			}
		})
	}
}
