package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayakatsir/web-development-assignments/pkg/mailer/templates"
)

type capturePublisher struct {
	jobs []EmailJob
}

func (c *capturePublisher) PublishEmail(_ context.Context, job EmailJob) error {
	c.jobs = append(c.jobs, job)
	return nil
}

func TestNotifierPublishesTemplateJobs(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub, templates.Branding{AppName: "Blog"})
	ctx := context.Background()

	require.NoError(t, n.Welcome(ctx, "bob", "bob@example.com"))
	require.NoError(t, n.SessionsRevoked(ctx, "bob", "bob@example.com"))

	require.Len(t, pub.jobs, 2)
	assert.Equal(t, templates.Welcome, pub.jobs[0].Template)
	assert.Equal(t, templates.SessionsRevoked, pub.jobs[1].Template)
	assert.Equal(t, "bob@example.com", pub.jobs[1].To)
	assert.Equal(t, "bob", pub.jobs[1].Data["Username"])

	subject, _, _, err := RenderJob(pub.jobs[0])
	require.NoError(t, err)
	assert.Contains(t, subject, "bob")
}

func TestNotifierSkipsMissingRecipient(t *testing.T) {
	pub := &capturePublisher{}
	err := NewNotifier(pub, templates.Branding{}).Welcome(context.Background(), "bob", "")
	assert.Error(t, err)
	assert.Empty(t, pub.jobs)
}

func TestRenderJobLiteral(t *testing.T) {
	s, text, html, err := RenderJob(EmailJob{Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)
}
