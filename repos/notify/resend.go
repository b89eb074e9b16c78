package notify

import (
	"context"
	"fmt"
	"log"

	resend "github.com/resend/resend-go/v2"
)

// ResendDelivery sends fired notifications to the team inbox via Resend.
type ResendDelivery struct {
	resendClient *resend.Client
	from         string
	to           string
}

// NewResendDelivery creates a delivery channel for the given sender and
// recipient addresses.
func NewResendDelivery(apiKey, from, to string) *ResendDelivery {
	return &ResendDelivery{
		resendClient: resend.NewClient(apiKey),
		from:         from,
		to:           to,
	}
}

func (d *ResendDelivery) Send(ctx context.Context, n Notification) error {
	params := &resend.SendEmailRequest{
		From:    d.from,
		To:      []string{d.to},
		Subject: n.Title,
		Html:    getReminderTemplate(n),
	}

	_, err := d.resendClient.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send mail request: %v\n", err)
		return err
	}
	return nil
}

func getReminderTemplate(n Notification) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
    <div style="background-color: #ffffff; max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>%s</h2>
        <p>%s</p>
        <p style="color: #6B7280; font-size: 12px;">Tournament: %s</p>
    </div>
</body>
</html>`, n.Title, n.Body, n.CorrelationID)
}
