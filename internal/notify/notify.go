package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/joshua-takyi/devevent/internal/models"
)

// Notifier tells a visitor their booking went through.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking, event *models.Event) error
}

type Config struct {
	Provider        string
	FromAddress     string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// New returns an SES backed notifier for provider "ses" and a logging noop otherwise.
func New(cfg Config, logger *slog.Logger) Notifier {
	if strings.EqualFold(cfg.Provider, "ses") {
		awsCfg := aws.Config{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		}
		return &SESNotifier{client: ses.NewFromConfig(awsCfg), from: cfg.FromAddress, logger: logger}
	}
	if cfg.Provider != "" && !strings.EqualFold(cfg.Provider, "noop") {
		logger.Warn("Unknown mail provider, using noop", "provider", cfg.Provider)
	}
	return &NoopNotifier{logger: logger}
}

// EmailSender is the part of the SES client the notifier uses.
type EmailSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESNotifier struct {
	client EmailSender
	from   string
	logger *slog.Logger
}

func NewSESNotifier(client EmailSender, from string, logger *slog.Logger) *SESNotifier {
	return &SESNotifier{client: client, from: from, logger: logger}
}

func (s *SESNotifier) BookingConfirmed(ctx context.Context, booking *models.Booking, event *models.Event) error {
	subject, text := confirmationMessage(event)
	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{booking.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.logger.Info("Booking confirmation sent", "booking_id", booking.ID.Hex(), "message_id", aws.ToString(out.MessageId))
	return nil
}

type NoopNotifier struct {
	logger *slog.Logger
}

func (n *NoopNotifier) BookingConfirmed(ctx context.Context, booking *models.Booking, event *models.Event) error {
	n.logger.Debug("Booking confirmation skipped (noop)", "to", booking.Email, "event", event.Slug)
	return nil
}

func confirmationMessage(event *models.Event) (string, string) {
	subject := fmt.Sprintf("You're booked: %s", event.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "Your spot for %s is confirmed.\n\n", event.Title)
	fmt.Fprintf(&b, "When: %s at %s\n", event.Date, event.Time)
	fmt.Fprintf(&b, "Where: %s, %s (%s)\n", event.Venue, event.Location, event.Mode)
	fmt.Fprintf(&b, "Organizer: %s\n", event.Organizer)
	return subject, b.String()
}
