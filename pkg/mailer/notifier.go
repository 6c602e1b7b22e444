package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/mayakatsir/web-development-assignments/pkg/mailer/templates"
)

// Publisher puts an EmailJob on the email queue. helpers.RabbitPublisher implements it.
type Publisher interface {
	PublishEmail(ctx context.Context, job EmailJob) error
}

var errNoRecipient = errors.New("mailer: recipient has no email address")

// Notifier turns account events into EmailJobs for the worker.
type Notifier struct {
	pub   Publisher
	brand templates.Branding
	now   func() time.Time
}

func NewNotifier(pub Publisher, brand templates.Branding) *Notifier {
	return &Notifier{pub: pub, brand: brand, now: time.Now}
}

func (n *Notifier) Welcome(ctx context.Context, username, email string) error {
	return n.publish(ctx, templates.Welcome, username, email)
}

// SessionsRevoked tells the user every session was signed out after a refresh
// token was presented twice.
func (n *Notifier) SessionsRevoked(ctx context.Context, username, email string) error {
	return n.publish(ctx, templates.SessionsRevoked, username, email)
}

func (n *Notifier) publish(ctx context.Context, tpl, username, email string) error {
	if email == "" {
		return errNoRecipient
	}
	data := templates.NewEmailData(n.brand, tpl, username, email, templates.WithTime(n.now()))
	return n.pub.PublishEmail(ctx, EmailJob{
		To:       email,
		Template: tpl,
		Data:     templates.ToMap(data),
	})
}
