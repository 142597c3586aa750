package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed sender. With an empty API key
// every send is a logged no-op.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(
	`<p>Hi {{.Name}},</p><p>Your booking <b>{{.BookingID}}</b> for the {{.CarName}} is confirmed.</p>` +
		`<p>Pickup: {{.Pickup}}<br>Return: {{.Return}}<br>Amount paid: {{printf "%.2f" .Price}}</p>`))

type confirmationData struct {
	Name      string
	BookingID string
	CarName   string
	Pickup    string
	Return    string
	Price     float64
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, to, name string, booking *domain.Booking, car *domain.Car) error {
	subject := "Your booking is confirmed"
	plain, html, err := renderConfirmation(name, booking, car)
	if err != nil {
		return fmt.Errorf("render confirmation: %w", err)
	}
	return s.send(ctx, to, name, subject, plain, html)
}

// renderConfirmation builds the plain and HTML bodies. User and car fields are
// escaped in the HTML body.
func renderConfirmation(name string, booking *domain.Booking, car *domain.Car) (string, string, error) {
	data := confirmationData{
		Name:      name,
		BookingID: booking.ID,
		CarName:   fmt.Sprintf("%s %s", car.Brand, car.Model),
		Pickup:    formatSchedule(booking.PickupDate, booking.PickupTime),
		Return:    formatSchedule(booking.ReturnDate, booking.ReturnTime),
		Price:     booking.Price,
	}

	plain := fmt.Sprintf("Hi %s,\n\nYour booking %s for the %s is confirmed.\nPickup: %s\nReturn: %s\nAmount paid: %.2f\n",
		data.Name, data.BookingID, data.CarName, data.Pickup, data.Return, data.Price)

	var buf bytes.Buffer
	if err := confirmationHTML.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return plain, buf.String(), nil
}

func formatSchedule(date time.Time, clock string) string {
	if clock == "" {
		clock = utils.DefaultTimeOfDay
	}
	return date.UTC().Format("02 Jan 2006") + " " + clock
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plain, html string) error {
	if s.apiKey == "" {
		logger.Debug("Email disabled, skipping send", "to", to, "subject", subject)
		return nil
	}

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail(toName, to), plain, html)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to)
	resp, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
