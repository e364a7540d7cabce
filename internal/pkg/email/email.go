// Package email sends notification mail through SMTP or SendGrid.
package email

import (
	"context"
	"fmt"
	"html"

	"github.com/rs/zerolog"
)

// Message is one outgoing email
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier defines the notification mails the API sends
type Notifier interface {
	NotifyTeamRequest(ctx context.Context, req TeamRequest) error
}

// TeamRequest describes a contact on a team finder post
type TeamRequest struct {
	OwnerEmail string
	OwnerName  string
	FromName   string
	PostTitle  string
	Content    string
}

// NotifierImpl renders notifications and hands them to a Sender
type NotifierImpl struct {
	sender  Sender
	appName string
	baseURL string
	logger  zerolog.Logger
}

// NewNotifier creates a Notifier. A nil sender only logs.
func NewNotifier(sender Sender, appName, baseURL string, logger zerolog.Logger) *NotifierImpl {
	return &NotifierImpl{
		sender:  sender,
		appName: appName,
		baseURL: baseURL,
		logger:  logger,
	}
}

// NotifyTeamRequest tells a post owner that someone wants to join
func (n *NotifierImpl) NotifyTeamRequest(ctx context.Context, req TeamRequest) error {
	if req.OwnerEmail == "" {
		return nil
	}
	msg := Message{
		ToEmail: req.OwnerEmail,
		ToName:  req.OwnerName,
		Subject: fmt.Sprintf("[%s] You have a new team request", n.appName),
		Text: fmt.Sprintf("Hello %s,\n\n%s wants to join \"%s\":\n\n%s\n\nReply from your inbox: %s/messages\n",
			req.OwnerName, req.FromName, req.PostTitle, req.Content, n.baseURL),
		HTML: fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">You have a new team request</h2>
				<p>Hello %s,</p>
				<p><strong>%s</strong> wants to join <strong>%s</strong>:</p>
				<blockquote style="border-left: 3px solid #4a86e8; padding-left: 12px;">%s</blockquote>
				<p><a href="%s/messages">Reply from your inbox</a></p>
				<p>Best regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(req.OwnerName), html.EscapeString(req.FromName), html.EscapeString(req.PostTitle),
			html.EscapeString(req.Content), n.baseURL, n.appName),
	}

	if n.sender == nil {
		n.logger.Info().
			Str("toEmail", msg.ToEmail).
			Str("subject", msg.Subject).
			Msg("Email delivery not configured - notification not sent")
		return nil
	}
	return n.sender.Send(ctx, msg)
}
