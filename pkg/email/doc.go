// Package email sends transactional emails.
//
// EmailSender has two implementations: the Postmark client for production and
// DevSender, which writes each message to a directory for local inspection.
// NewSender picks one from Config. Message bodies are templ components
// rendered with templates.Render; SendWelcome sends the post-registration
// email.
//
//	sender, err := email.NewSender(cfg)
//	err = email.SendWelcome(ctx, sender, cfg, user.Email, user.Name)
package email
