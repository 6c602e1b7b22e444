package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Sender delivers one rendered email. Mailgun implements it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// ErrPermanent marks a job that can never succeed; the worker drops it
// instead of requeueing.
var ErrPermanent = errors.New("mailer: permanent failure")

// Process decodes, renders and sends one queued job. Decode and render
// failures wrap ErrPermanent; send failures are retryable.
func Process(ctx context.Context, body []byte, s Sender) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: %v", ErrPermanent, errNoRecipient)
	}
	subject, text, html, err := RenderJob(job)
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
