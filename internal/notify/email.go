package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier publishes feedback activity to a team inbox via Resend.
type EmailNotifier struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
}

func NewEmailNotifier(apiKey, fromEmail, toEmail string) *EmailNotifier {
	return &EmailNotifier{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.fromEmail,
		To:      []string{n.toEmail},
		Subject: "TeamPulse: new feedback activity",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">New feedback activity</h2>
				<p>%s</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					Log in to TeamPulse to read and acknowledge it.
				</p>
			</div>
		`, strings.ReplaceAll(message, "\n", "<br>")),
	}

	sent, err := n.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Notification email sent (ID: %s)", sent.Id)
	return nil
}
