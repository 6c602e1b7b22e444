package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either the literal Subject/Text/HTML are set, or Template names a template
// set rendered by the worker with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "sessions_revoked"
	Data     map[string]any `json:"data,omitempty"`
}
