package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mayakatsir/web-development-assignments/pkg/mailer"
)

// ErrNotConfirmed is returned when the broker nacks a published email job.
var ErrNotConfirmed = errors.New("rabbitmq: email job not confirmed by broker")

// RabbitPublisher puts email jobs on a durable queue through the default
// exchange. The channel runs in confirm mode so a publish only succeeds once
// the broker has taken the message.
type RabbitPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
	AppID string
}

func NewRabbitPublisher(url, queue, appID string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Declare durable queue
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn: conn, ch: ch, Queue: queue, AppID: appID}, nil
}

func (p *RabbitPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishEmail publishes job to the email queue and waits for the broker ack.
func (p *RabbitPublisher) PublishEmail(ctx context.Context, job mailer.EmailJob) error {
	msg, err := emailPublishing(job, p.AppID, uuid.NewString(), time.Now())
	if err != nil {
		return err
	}
	conf, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		msg,
	)
	if err != nil {
		return err
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return fmt.Errorf("%w: %s", ErrNotConfirmed, msg.MessageId)
	}
	return nil
}

// EmailMessageType is the AMQP type of a job: "email.<template>", or
// "email.literal" when the job carries its own subject and body.
func EmailMessageType(job mailer.EmailJob) string {
	if job.Template == "" {
		return "email.literal"
	}
	return "email." + job.Template
}

func emailPublishing(job mailer.EmailJob, appID, id string, now time.Time) (amqp.Publishing, error) {
	if job.To == "" {
		return amqp.Publishing{}, errors.New("rabbitmq: email job has no recipient")
	}
	b, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    id,
		AppId:        appID,
		Type:         EmailMessageType(job),
		Timestamp:    now.UTC(),
		Body:         b,
	}, nil
}

var _ mailer.Publisher = (*RabbitPublisher)(nil)
