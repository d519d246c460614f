package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// WelcomeData fills the welcome email.
type WelcomeData struct {
	Name        string
	ProductName string
	ProductURL  string
}

// Welcome is the email sent after a successful registration. Every value is
// HTML escaped and the URL is sanitized.
func Welcome(d WelcomeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		greeting := "Welcome!"
		if d.Name != "" {
			greeting = "Welcome, " + d.Name + "!"
		}
		product := templ.EscapeString(d.ProductName)
		link := templ.EscapeString(string(templ.URL(d.ProductURL)))

		_, err := io.WriteString(w, `<!DOCTYPE html><html><body style="font-family:sans-serif">`+
			`<h1>`+templ.EscapeString(greeting)+`</h1>`+
			`<p>Your `+product+` account is ready.</p>`+
			`<p><a href="`+link+`">Open `+product+`</a></p>`+
			`</body></html>`)
		return err
	})
}
