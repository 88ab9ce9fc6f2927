package notification

import (
	"context"
	"fmt"
	"strings"

	"hotelbooking/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailNotifier sends notices as plain-text email over SMTP.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewMailNotifier(cfg MailConfig, logger *zap.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// BookingConfirmed sends the confirmation immediately.
func (m *MailNotifier) BookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	notice.Kind = models.NoticeConfirmation
	return m.Send(ctx, notice)
}

// BookingCancelled is a no-op: direct delivery never schedules anything ahead.
func (m *MailNotifier) BookingCancelled(context.Context, string) error {
	return nil
}

func (m *MailNotifier) Send(ctx context.Context, notice models.BookingNotice) error {
	if notice.Email == "" {
		return fmt.Errorf("booking %s has no recipient address", notice.Reference)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body := Render(notice)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", notice.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send %s email for %s: %w", notice.Kind, notice.Reference, err)
	}
	m.logger.Info("Booking email sent",
		zap.String("kind", notice.Kind),
		zap.String("reference", notice.Reference),
		zap.String("to", notice.Email))
	return nil
}

// Render produces the subject and plain-text body of a notice.
func Render(n models.BookingNotice) (string, string) {
	var subject, lead string
	switch {
	case n.Kind == models.NoticeReminder:
		subject = fmt.Sprintf("Your stay starts tomorrow - %s", n.Reference)
		lead = "This is a reminder that your stay starts tomorrow."
	case n.Status == models.StatusConfirmed:
		subject = fmt.Sprintf("Booking confirmed - %s", n.Reference)
		lead = "Your booking is confirmed. We look forward to welcoming you."
	default:
		subject = fmt.Sprintf("Booking received - %s", n.Reference)
		lead = "Thank you for your booking. Here are the details."
	}

	name := n.GuestName
	if name == "" {
		name = "Guest"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n%s\n\n", name, lead)
	fmt.Fprintf(&b, "Reference: %s\n", n.Reference)
	if n.RoomName != "" {
		fmt.Fprintf(&b, "Room: %s\n", n.RoomName)
	}
	fmt.Fprintf(&b, "Check-in: %s\n", n.CheckIn)
	fmt.Fprintf(&b, "Check-out: %s\n", n.CheckOut)
	fmt.Fprintf(&b, "Nights: %d\n", n.Nights)
	fmt.Fprintf(&b, "Total: %s %s\n", n.TotalPrice, n.Currency)
	return subject, b.String()
}
