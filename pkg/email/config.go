package email

// Config holds email delivery settings. Without Postmark tokens the gateway
// falls back to DevSender, which writes messages to DevDir.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@apigate.local" validate:"required,email"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@apigate.local" validate:"required,email"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
	ProductName          string `env:"PRODUCT_NAME" envDefault:"apigate"`
	ProductURL           string `env:"PRODUCT_URL" envDefault:"http://localhost:8080" validate:"omitempty,url"`
}

// PostmarkEnabled reports whether both Postmark tokens are set.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
