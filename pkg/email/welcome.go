package email

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/apigate/pkg/email/templates"
)

// WelcomeTag tags welcome emails in Postmark.
const WelcomeTag = "welcome"

// SendWelcome renders and sends the welcome email.
func SendWelcome(ctx context.Context, sender EmailSender, cfg Config, to, name string) error {
	body, err := templates.Render(ctx, templates.Welcome(templates.WelcomeData{
		Name:        name,
		ProductName: cfg.ProductName,
		ProductURL:  cfg.ProductURL,
	}))
	if err != nil {
		return fmt.Errorf("%w: render welcome: %v", ErrFailedToSendEmail, err)
	}

	return sender.SendEmail(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  "Welcome to " + cfg.ProductName,
		BodyHTML: body,
		Tag:      WelcomeTag,
	})
}
