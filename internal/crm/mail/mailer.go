// Package mail is the email-delivery collaborator. Invitation creation calls
// it after the invitation is persisted; a delivery failure is reported but
// never rolls the invitation back, since resend covers it.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carisma-crm/carisma/pkg/slogx"
)

// Mailer sends transactional email. Implementations must not log the HTML
// body: invitation emails embed the bearer token.
type Mailer interface {
	// Send delivers a single message and returns the provider's message id.
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// InvitationEmail renders the invitation message. The accept link embeds the
// token as a URL path segment, matching the frontend's accept route.
func InvitationEmail(baseURL, companyName, role, token string) (subject, htmlBody string) {
	link := fmt.Sprintf("%s/accept-invite/%s", baseURL, token)
	subject = fmt.Sprintf("Invitation to join %s on Carisma CRM", companyName)
	htmlBody = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Welcome to %s!</h1>
  <p>You've been invited to join %s as a %s.</p>
  <p><a href="%s">Accept Invitation</a></p>
  <p>This invitation will expire in 7 days.</p>
</div>`, companyName, companyName, role, link)
	return subject, htmlBody
}

// LogMailer is the development Mailer: it records the send in the log
// instead of delivering anything. The body (and therefore the token) is
// only emitted at debug level.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	log := slogx.FromContext(ctx)
	log.Info("mail send (log only)", slog.String("to", to), slog.String("subject", subject))
	log.Debug("mail body", slog.String("html", htmlBody))
	return "log-mailer", nil
}
