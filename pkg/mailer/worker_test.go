package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct{ to, subject, text, html string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func encode(t *testing.T, job EmailJob) []byte {
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestProcessRendersTemplate(t *testing.T) {
	s := &fakeSender{}
	body := encode(t, EmailJob{To: "bob@x.com", Template: "welcome", Data: map[string]any{"Username": "bob", "AppName": "Blog"}})

	require.NoError(t, Process(context.Background(), body, s))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "bob@x.com", s.sent[0].to)
	assert.Equal(t, "Welcome to Blog, bob", s.sent[0].subject)
	assert.NotEmpty(t, s.sent[0].html)
}

func TestProcessLiteralJob(t *testing.T) {
	s := &fakeSender{}
	body := encode(t, EmailJob{To: "a@x.com", Subject: "hi", Text: "plain"})

	require.NoError(t, Process(context.Background(), body, s))
	assert.Equal(t, sentMail{"a@x.com", "hi", "plain", ""}, s.sent[0])
}

func TestProcessPermanentFailures(t *testing.T) {
	for name, body := range map[string][]byte{
		"bad json":         []byte("{"),
		"no recipient":     encode(t, EmailJob{Subject: "x"}),
		"unknown template": encode(t, EmailJob{To: "a@x.com", Template: "nope"}),
	} {
		t.Run(name, func(t *testing.T) {
			err := Process(context.Background(), body, &fakeSender{})
			assert.ErrorIs(t, err, ErrPermanent)
		})
	}
}

func TestProcessSendFailureIsRetryable(t *testing.T) {
	s := &fakeSender{err: errors.New("mailgun down")}
	err := Process(context.Background(), encode(t, EmailJob{To: "a@x.com", Subject: "x"}), s)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPermanent))
}
