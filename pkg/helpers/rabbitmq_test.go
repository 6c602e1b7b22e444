package helpers

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayakatsir/web-development-assignments/pkg/mailer"
)

func TestEmailPublishing(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	job := mailer.EmailJob{To: "bob@example.com", Template: "welcome", Data: map[string]any{"Username": "bob"}}

	msg, err := emailPublishing(job, "blog", "id-1", now)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "id-1", msg.MessageId)
	assert.Equal(t, "blog", msg.AppId)
	assert.Equal(t, "email.welcome", msg.Type)
	assert.Equal(t, now.UTC(), msg.Timestamp)

	var decoded mailer.EmailJob
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, job, decoded)
}

func TestEmailMessageType(t *testing.T) {
	assert.Equal(t, "email.sessions_revoked", EmailMessageType(mailer.EmailJob{Template: "sessions_revoked"}))
	assert.Equal(t, "email.literal", EmailMessageType(mailer.EmailJob{Subject: "hi", Text: "body"}))
}

func TestEmailPublishingRequiresRecipient(t *testing.T) {
	_, err := emailPublishing(mailer.EmailJob{Template: "welcome"}, "blog", "id-1", time.Now())
	assert.Error(t, err)
}
