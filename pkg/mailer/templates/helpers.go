package templates

import (
	"time"

	"github.com/mayakatsir/web-development-assignments/config"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func NewBranding(cfg *config.Config) Branding {
	return Branding{
		AppName:     cfg.AppName,
		CompanyName: cfg.CompanyName,
		SupportURL:  cfg.SupportURL,
		LoginURL:    cfg.LoginURL,
	}
}

// NewEmailData fills the common fields from b, then applies opts.
func NewEmailData(b Branding, typ, username, email string, opts ...Option) EmailData {
	d := EmailData{
		Username:    username,
		Email:       email,
		Type:        typ,
		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		SupportURL:  b.SupportURL,
		LoginURL:    b.LoginURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
