package services

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"faculty-management-api/config"
	"faculty-management-api/models"

	"go.uber.org/zap"
)

// Mailer sends one HTML email.
type Mailer interface {
	SendMail(to []string, subject, html string) error
}

// NotificationSink stores in-app notifications.
type NotificationSink interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Directory resolves notification recipients.
type Directory interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	Reviewers(ctx context.Context, kind models.RequestKind, department string) ([]models.User, error)
}

// ApplicationLookup finds a candidate's application, for emailing people
// without an account.
type ApplicationLookup interface {
	Get(ctx context.Context, id string) (*models.FacultyApplication, error)
}

// Notifier turns workflow events into in-app notifications and emails.
// Failures are logged and counted; they never reach the workflow.
type Notifier struct {
	sink         NotificationSink
	directory    Directory
	mailer       Mailer
	applications ApplicationLookup
	origin       string
}

// NewNotifier builds a notifier. mailer and applications may be nil.
func NewNotifier(sink NotificationSink, directory Directory, mailer Mailer, applications ApplicationLookup) *Notifier {
	return &Notifier{sink: sink, directory: directory, mailer: mailer, applications: applications}
}

// WithOrigin restricts the notifier to events this instance published, so a
// Redis fan-out does not notify once per instance.
func (n *Notifier) WithOrigin(origin string) *Notifier {
	n.origin = origin
	return n
}

// Run consumes events until ctx is done or the channel closes.
func (n *Notifier) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			n.Handle(ctx, evt)
		}
	}
}

func (n *Notifier) Handle(ctx context.Context, evt Event) {
	if evt.Origin != "" && n.origin != "" && evt.Origin != n.origin {
		return
	}
	switch evt.Type {
	case EventRequestCreated:
		n.notifyReviewers(ctx, evt)
	case EventRequestReviewed:
		n.notifySubmitter(ctx, evt)
	case EventRequestRemoved:
		if evt.SubmitterID != nil && *evt.SubmitterID != evt.ActorID {
			title := fmt.Sprintf("Your %s was removed", kindLabel(evt.Kind))
			msg := fmt.Sprintf("An administrator removed your pending %s (%s).", kindLabel(evt.Kind), evt.RequestID)
			n.notifyUser(ctx, *evt.SubmitterID, evt, "warning", title, msg)
		}
	}
}

func (n *Notifier) notifyReviewers(ctx context.Context, evt Event) {
	if n.directory == nil {
		return
	}
	reviewers, err := n.directory.Reviewers(ctx, evt.Kind, evt.Department)
	if err != nil {
		n.fail("in_app", evt, err)
		return
	}
	title := fmt.Sprintf("New %s awaiting review", kindLabel(evt.Kind))
	msg := fmt.Sprintf("A %s from %s was submitted and is waiting for your decision.", kindLabel(evt.Kind), evt.Department)
	for _, r := range reviewers {
		if r.UserID == evt.ActorID {
			continue
		}
		n.deliver(ctx, r, evt, "info", title, msg)
	}
}

func (n *Notifier) notifySubmitter(ctx context.Context, evt Event) {
	title := fmt.Sprintf("Your %s is now %s", kindLabel(evt.Kind), evt.NewStatus)
	msg := fmt.Sprintf("Your %s changed from %s to %s.", kindLabel(evt.Kind), evt.OldStatus, evt.NewStatus)
	if evt.Notes != nil && strings.TrimSpace(*evt.Notes) != "" {
		msg += "\nReviewer notes: " + strings.TrimSpace(*evt.Notes)
	}
	level := "info"
	switch evt.NewStatus {
	case models.StatusApproved, models.StatusHired:
		level = "success"
	case models.StatusRejected:
		level = "error"
	}

	if evt.SubmitterID != nil {
		n.notifyUser(ctx, *evt.SubmitterID, evt, level, title, msg)
		return
	}

	// Candidates have no account; email them directly.
	if evt.Kind != models.KindFacultyApplication || n.applications == nil {
		return
	}
	app, err := n.applications.Get(ctx, evt.RequestID)
	if err != nil {
		n.fail("email", evt, err)
		return
	}
	n.email(evt, app.Email, app.FullName(), title, msg)
}

func (n *Notifier) notifyUser(ctx context.Context, userID uint, evt Event, level, title, msg string) {
	if n.directory == nil {
		return
	}
	user, err := n.directory.FindUser(ctx, userID)
	if err != nil {
		n.fail("in_app", evt, err)
		return
	}
	n.deliver(ctx, *user, evt, level, title, msg)
}

func (n *Notifier) deliver(ctx context.Context, user models.User, evt Event, level, title, msg string) {
	if n.sink != nil {
		id := evt.RequestID
		row := &models.Notification{
			UserID:      user.UserID,
			Title:       title,
			Message:     msg,
			Type:        level,
			RelatedKind: evt.Kind,
			RelatedID:   &id,
		}
		if err := n.sink.Create(persistentContext(ctx), row); err != nil {
			n.fail("in_app", evt, err)
		}
	}
	n.email(evt, user.Email, user.FullName(), title, msg)
}

func (n *Notifier) email(evt Event, to, name, subject, msg string) {
	if n.mailer == nil || strings.TrimSpace(to) == "" {
		return
	}
	if err := n.mailer.SendMail([]string{to}, subject, formalEmailHTML(subject, name, msg)); err != nil {
		n.fail("email", evt, err)
	}
}

func (n *Notifier) fail(channel string, evt Event, err error) {
	notificationFailures.WithLabelValues(channel).Inc()
	config.Log.Warn("notification failed",
		zap.String("channel", channel),
		zap.String("type", evt.Type),
		zap.String("request_id", evt.RequestID),
		zap.Error(err))
}

func kindLabel(kind models.RequestKind) string {
	switch kind {
	case models.KindLeave:
		return "leave application"
	case models.KindScheduleChange:
		return "schedule change request"
	case models.KindFacultyApplication:
		return "faculty application"
	}
	return string(kind)
}

func formalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "colleague"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
