package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"go-interview-backend/config"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/logger"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// InvitationService delivers interview invitations over SMTP.
type InvitationService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	tmpl      *template.Template
	send      sendFunc
}

func NewInvitationService(cfg *config.Config) *InvitationService {
	return &InvitationService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		tmpl:      template.Must(template.New("invitation").Parse(invitationTemplate)),
		send:      smtp.SendMail,
	}
}

const invitationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Interview Invitation</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background: #0066cc; color: white; text-decoration: none; border-radius: 4px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>You're invited to an interview</h1>
        </div>
        <div class="content">
            <p>Hi {{.CandidateName}},</p>
            <p>You have been invited to complete the <strong>{{.TemplateTitle}}</strong> interview.</p>
            {{if .Due}}<p>Please complete it before <strong>{{.Due}}</strong>.</p>{{end}}
            <p><a class="button" href="{{.InterviewLink}}">Start interview</a></p>
            <p>If the button does not work, open this link: {{.InterviewLink}}</p>
        </div>
        <div class="footer">
            <p>This email was sent because a recruiter scheduled an interview for {{.CandidateEmail}}.</p>
        </div>
    </div>
</body>
</html>`

type invitationData struct {
	domain.Invitation
	Due string
}

// SendInvitation never returns an error for delivery problems; they are
// reported through the DeliveryResult so interview creation is unaffected.
func (s *InvitationService) SendInvitation(ctx context.Context, inv domain.Invitation) (*domain.DeliveryResult, error) {
	if !s.IsConfigured() {
		return &domain.DeliveryResult{
			Success: false,
			Message: "email delivery is not configured",
		}, nil
	}

	data := invitationData{Invitation: inv}
	if inv.DueDate != nil {
		data.Due = inv.DueDate.UTC().Format(time.RFC1123)
	}

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute invitation template: %w", err)
	}

	subject := fmt.Sprintf("Interview invitation: %s", inv.TemplateTitle)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		inv.CandidateEmail,
		subject,
		body.String(),
	))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{inv.CandidateEmail}, msg); err != nil {
		logger.Log.Warn("invitation email failed",
			"interview_id", inv.InterviewID,
			"error", err,
		)
		return &domain.DeliveryResult{
			Success: false,
			Message: "failed to send invitation email",
			Details: map[string]string{"error": err.Error()},
		}, nil
	}

	return &domain.DeliveryResult{
		Success: true,
		Message: "invitation sent",
		Details: map[string]string{"recipient": inv.CandidateEmail},
	}, nil
}

// IsConfigured checks if the service has usable SMTP credentials
func (s *InvitationService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
