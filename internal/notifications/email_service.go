package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"time"

	"stagedoor/internal/shared/config"

	qrcode "github.com/skip2/go-qrcode"
)

// EmailSender delivers booking confirmations over email
type EmailSender interface {
	SendConfirmation(ctx context.Context, msg *ConfirmationMessage) error
}

// SMTPEmailSender is the SMTP implementation of EmailSender
type SMTPEmailSender struct {
	config   config.EmailConfig
	template *template.Template
	useTLS   bool
}

const confirmationEmailTemplate = `{{define "html"}}<!DOCTYPE html>
<html>
<body style="font-family: Georgia, serif; color: #1a1a1a; max-width: 600px; margin: 0 auto;">
	<h1 style="font-size: 22px;">You're confirmed, {{.GuestName}}</h1>
	<p>Your seats for <strong>{{.ExperienceTitle}}</strong> are booked.</p>
	<table style="border-collapse: collapse; width: 100%; margin: 16px 0;">
		<tr><td style="padding: 6px 12px 6px 0;"><strong>Date</strong></td><td>{{.ShowDate}}</td></tr>
		<tr><td style="padding: 6px 12px 6px 0;"><strong>Showtime</strong></td><td>{{.ShowTime}}</td></tr>
		{{if .DoorsTime}}<tr><td style="padding: 6px 12px 6px 0;"><strong>Doors</strong></td><td>{{.DoorsTime}}</td></tr>{{end}}
		<tr><td style="padding: 6px 12px 6px 0;"><strong>Venue</strong></td><td>{{.VenueName}}{{if .VenueAddress}}, {{.VenueAddress}}{{end}}, {{.VenueCity}}, {{.VenueState}}</td></tr>
		<tr><td style="padding: 6px 12px 6px 0;"><strong>Tickets</strong></td><td>{{.TicketCount}}</td></tr>
		<tr><td style="padding: 6px 12px 6px 0;"><strong>Total</strong></td><td>{{.TotalDisplay}}</td></tr>
	</table>
	<p style="font-size: 18px;">Your door code: <strong style="letter-spacing: 2px;">{{.TicketCode}}</strong></p>
	{{if .QRDataURI}}<p><img src="{{.QRDataURI}}" alt="{{.TicketCode}}" width="160" height="160"/></p>{{end}}
	{{if .TicketURL}}<p><a href="{{.TicketURL}}">Download your ticket (PDF)</a></p>{{end}}
	{{if .VenueNotes}}<p style="color: #555;">{{.VenueNotes}}</p>{{end}}
	<p style="color: #555;">Show this code or QR at the door. See you there.</p>
</body>
</html>{{end}}
{{define "text"}}You're confirmed, {{.GuestName}}!

{{.ExperienceTitle}}
Date: {{.ShowDate}}
Showtime: {{.ShowTime}}{{if .DoorsTime}}
Doors: {{.DoorsTime}}{{end}}
Venue: {{.VenueName}}{{if .VenueAddress}}, {{.VenueAddress}}{{end}}, {{.VenueCity}}, {{.VenueState}}
Tickets: {{.TicketCount}}
Total: {{.TotalDisplay}}

Your door code: {{.TicketCode}}
{{if .VenueNotes}}
{{.VenueNotes}}
{{end}}
Show this code at the door. See you there.{{end}}`

// NewSMTPEmailSender creates the SMTP email sender. The confirmation
// template is parsed once at startup.
func NewSMTPEmailSender(cfg config.EmailConfig) (*SMTPEmailSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	tmpl, err := template.New("confirmation").Parse(confirmationEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &SMTPEmailSender{
		config:   cfg,
		template: tmpl,
		useTLS:   true,
	}, nil
}

type confirmationEmailData struct {
	*ConfirmationMessage
	QRDataURI template.URL
}

func (s *SMTPEmailSender) SendConfirmation(ctx context.Context, msg *ConfirmationMessage) error {
	if msg.GuestEmail == "" {
		return fmt.Errorf("confirmation for %s has no email address", msg.GuestName)
	}

	data := confirmationEmailData{ConfirmationMessage: msg}
	if qrPNG, err := qrcode.Encode(msg.TicketCode, qrcode.Medium, 320); err == nil {
		data.QRDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG))
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := s.template.ExecuteTemplate(&htmlBuf, "html", data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}
	if err := s.template.ExecuteTemplate(&textBuf, "text", data); err != nil {
		textBuf.Reset()
		textBuf.WriteString("Please view this email in HTML format.")
	}

	subject := fmt.Sprintf("Booking confirmed: %s on %s", msg.ExperienceTitle, msg.ShowDate)
	return s.send(ctx, msg.GuestEmail, subject, htmlBuf.String(), textBuf.String())
}

func (s *SMTPEmailSender) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var err error
	if s.useTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage creates the email message with proper headers
func (s *SMTPEmailSender) buildMessage(to, subject, htmlBody, textBody string) []byte {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Date"] = time.Now().Format(time.RFC1123Z)

	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers["Content-Type"] = fmt.Sprintf("multipart/alternative; boundary=%s", boundary)

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n"

	if textBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/plain; charset=UTF-8\r\n"
		message += "\r\n"
		message += textBody + "\r\n"
	}

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary)
		message += "Content-Type: text/html; charset=UTF-8\r\n"
		message += "\r\n"
		message += htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(message)
}

// sendWithSTARTTLS sends email with STARTTLS encryption
func (s *SMTPEmailSender) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.SMTPHost,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}
