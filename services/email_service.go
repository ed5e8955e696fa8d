// File: /services/email_service.go
package services

import (
	"fmt"
	"html"
	"strings"

	"fueltrack-api/config"
	"fueltrack-api/insights"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

func (es *EmailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

// SendWelcomeEmail greets a newly registered user
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	m := es.newMessage(email, "Welcome to FuelTrack")

	textBody := fmt.Sprintf(`
Hello %s!

Your FuelTrack account is ready.

Log your trips and refuels and FuelTrack will show where your money goes,
remind you about upcoming maintenance and score your driving efficiency.

Drive safe!
The FuelTrack Team
`, name)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Hello %s!</h2>
    <p>Your FuelTrack account is ready.</p>
    <p>Log your trips and refuels and FuelTrack will show where your money goes,
    remind you about upcoming maintenance and score your driving efficiency.</p>
    <p>Drive safe!<br><strong>The FuelTrack Team</strong></p>
</body>
</html>`, html.EscapeString(name))

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	fmt.Printf("📧 Welcome email sent to %s\n", email)
	return nil
}

// BuildDigestMessage renders the maintenance digest for one user
func (es *EmailService) BuildDigestMessage(report DigestReport) *gomail.Message {
	subject := fmt.Sprintf("FuelTrack: %d maintenance reminder(s)", len(report.Alerts))
	if overdue := OverdueCount(report.Alerts); overdue > 0 {
		subject = fmt.Sprintf("FuelTrack: %d maintenance reminder(s), %d overdue", len(report.Alerts), overdue)
	}
	m := es.newMessage(report.User.Email, subject)

	var text, rows strings.Builder
	fmt.Fprintf(&text, "Hello %s!\n\nThese items need your attention:\n\n", report.User.Name)
	for _, a := range report.Alerts {
		fmt.Fprintf(&text, "- [%s] %s: %s\n", a.State, a.Title, a.Remaining)
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(string(a.State)), html.EscapeString(a.Title), html.EscapeString(a.Remaining))
	}

	scoreLine := "Not enough trips in the last 30 days for a driving score."
	if report.Score != nil {
		scoreLine = fmt.Sprintf("Your driving score: %d (%s).", report.Score.Overall, report.Score.Grade)
	}
	fmt.Fprintf(&text, "\n%s\n\nThe FuelTrack Team\n", scoreLine)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Hello %s!</h2>
    <p>These items need your attention:</p>
    <table cellpadding="6" style="border-collapse: collapse;">
        <tr><th align="left">State</th><th align="left">Item</th><th align="left">Remaining</th></tr>
%s    </table>
    <p>%s</p>
    <p><strong>The FuelTrack Team</strong></p>
</body>
</html>`, html.EscapeString(report.User.Name), rows.String(), html.EscapeString(scoreLine))

	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", htmlBody)
	return m
}

// SendMaintenanceDigest emails the digest. Reports without alerts are not sent.
func (es *EmailService) SendMaintenanceDigest(report DigestReport) error {
	if len(report.Alerts) == 0 {
		return nil
	}

	if err := es.dialer.DialAndSend(es.BuildDigestMessage(report)); err != nil {
		return fmt.Errorf("failed to send maintenance digest: %w", err)
	}

	fmt.Printf("📧 Maintenance digest sent to %s (%d alerts)\n", report.User.Email, len(report.Alerts))
	return nil
}

// OverdueCount counts the overdue alerts in a report
func OverdueCount(alerts []insights.Classification) int {
	n := 0
	for _, a := range alerts {
		if a.State == insights.StateOverdue {
			n++
		}
	}
	return n
}
