package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

// MenuMatch pairs an active subscription with one menu appearance of its
// food on the target date.
type MenuMatch struct {
	FoodID     string `json:"foodId"`
	FoodName   string `json:"foodName"`
	DiningHall string `json:"diningHall"`
	Meal       string `json:"meal"`
	Date       string `json:"date"`
}

// UserNotification is one user's batch of matches for a single run.
type UserNotification struct {
	UserID  uint        `json:"-"`
	Email   string      `json:"email"`
	Matches []MenuMatch `json:"matches"`
}

// MailSender is the narrow transport contract the dispatcher needs.
type MailSender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// SESMailer sends through AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
			},
		},
		Source: aws.String(m.from),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

type EmailService struct {
	mailer MailSender
	log    *zap.SugaredLogger
}

func NewEmailService(mailer MailSender, log *zap.SugaredLogger) *EmailService {
	return &EmailService{mailer: mailer, log: log}
}

// SendNotification composes one message containing every match for the
// user and attempts delivery. A failure is logged and reported as false;
// it never affects other recipients.
func (s *EmailService) SendNotification(ctx context.Context, n UserNotification) bool {
	subject := "🍽️ Your favorite foods are available today!"

	text := s.generateText(n)
	html := s.generateHTML(n)

	if err := s.mailer.Send(ctx, n.Email, subject, text, html); err != nil {
		s.log.Warnw("failed to send notification", "email", n.Email, "error", err)
		return false
	}

	s.log.Infow("notification sent", "email", n.Email, "matches", len(n.Matches))
	return true
}

func (s *EmailService) generateText(n UserNotification) string {
	var b strings.Builder
	b.WriteString("🍽️ Bucky's Menu Alert\n\n")
	b.WriteString("Your subscribed foods are available today!\n\n")

	for _, match := range n.Matches {
		fmt.Fprintf(&b, "• %s at %s (%s) on %s\n",
			match.FoodName,
			formatDiningHall(match.DiningHall),
			formatMeal(match.Meal),
			formatLongDate(match.Date),
		)
	}

	b.WriteString("\n---\n")
	b.WriteString("You're receiving this because you subscribed to menu notifications.\n")
	b.WriteString("Don't want these emails? Reply to unsubscribe.")
	return b.String()
}

func (s *EmailService) generateHTML(n UserNotification) string {
	var matches strings.Builder
	for _, match := range n.Matches {
		fmt.Fprintf(&matches, `
      <div style="background: #f5f5f5; padding: 15px; margin: 10px 0; border-radius: 8px;">
        <h3 style="margin: 0 0 10px 0; color: #c5050c;">%s</h3>
        <p style="margin: 5px 0; color: #666;">
          <strong>Location:</strong> %s<br>
          <strong>Meal:</strong> %s<br>
          <strong>Date:</strong> %s
        </p>
      </div>`,
			match.FoodName,
			formatDiningHall(match.DiningHall),
			formatMeal(match.Meal),
			formatLongDate(match.Date),
		)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Your Menu Notifications</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #c5050c;">🍽️ Bucky's Menu Alert</h1>
    <p style="color: #666; font-size: 16px;">Your subscribed foods are available today!</p>
  </div>

  <div>%s
  </div>

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px;">
    <p>You're receiving this because you subscribed to menu notifications.</p>
    <p>Don't want these emails? Reply to unsubscribe.</p>
  </div>
</body>
</html>`, matches.String())
}

// formatDiningHall turns a provider slug like "gordon-avenue-market" into
// "Gordon Avenue Market".
func formatDiningHall(diningHall string) string {
	words := strings.Split(diningHall, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatMeal(meal string) string {
	if meal == "" {
		return meal
	}
	return strings.ToUpper(meal[:1]) + meal[1:]
}

func formatLongDate(date string) string {
	t, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
