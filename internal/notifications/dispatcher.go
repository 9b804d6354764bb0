package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/platewise/staffhub-backend/internal/logging"
	"github.com/platewise/staffhub-backend/internal/queue"
	"github.com/platewise/staffhub-backend/internal/store"
)

// Entity types carried on notifications so clients can deep-link.
const (
	EntityAnnouncement = "announcement"
	EntityShift        = "shift"
	EntitySwapRequest  = "swap_request"
	EntityTask         = "task"
)

// NotifierGroup defines a set of recipients and an optional email template.
// Template = "" means in-app notification (no-email) only.
type NotifierGroup struct {
	IDs          []uuid.UUID
	Template     string
	TemplateData map[string]interface{}
}

// EmailLookupFunc resolves UUIDs to email addresses.
type EmailLookupFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

// full NotificationService surface needed by the dispatcher.
type notificationSvc interface {
	Publish(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, notifierIDs []uuid.UUID) error
	GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

// subset of TaskQueue.
type queueService interface {
	Enqueue(taskType string, data interface{}) (*asynq.TaskInfo, error)
}

type NotificationDispatcher struct {
	svc         notificationSvc
	queue       queueService
	templates   *template.Template
	emailLookup EmailLookupFunc
}

func NewNotificationDispatcher(svc notificationSvc, q queueService, tmpl *template.Template, lookup EmailLookupFunc) *NotificationDispatcher {
	return &NotificationDispatcher{
		svc:         svc,
		queue:       q,
		templates:   tmpl,
		emailLookup: lookup,
	}
}

// Notify writes in-app notifications for all groups, then enqueues emails for
// groups that specify a template. Email failures are logged, not returned.
func (d *NotificationDispatcher) Notify(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, title, body string, groups []NotifierGroup) error {
	var allIDs []uuid.UUID
	for _, g := range groups {
		allIDs = append(allIDs, g.IDs...)
	}

	if len(allIDs) == 0 {
		return nil
	}

	if err := d.svc.Publish(ctx, actorID, entityType, entityID, title, body, allIDs); err != nil {
		return fmt.Errorf("failed to publish in-app notification: %w", err)
	}

	for _, g := range groups {
		if g.Template == "" {
			continue
		}
		d.sendGroupEmails(ctx, actorID, g)
	}

	return nil
}

func (d *NotificationDispatcher) sendGroupEmails(ctx context.Context, actorID uuid.UUID, g NotifierGroup) {
	if len(g.IDs) == 0 {
		return
	}
	if d.emailLookup == nil {
		logging.Error("email lookup func is nil, skipping email dispatch", "template", g.Template)
		return
	}
	emails, err := d.emailLookup(ctx, g.IDs)
	if err != nil {
		logging.Error("failed to look up emails for notification", "template", g.Template, "error", err)
		return
	}

	subject, body, err := d.renderTemplate(g.Template, g.TemplateData)
	if err != nil {
		logging.Error("failed to render notification template", "template", g.Template, "error", err)
		return
	}

	for id, email := range emails {
		if id == actorID {
			continue
		}
		if _, err := d.queue.Enqueue(queue.TypeEmailDelivery, queue.EmailDeliveryPayload{
			To:      email,
			Subject: subject,
			Body:    body,
		}); err != nil {
			logging.Error("failed to enqueue notification email", "to", email, "template", g.Template, "error", err)
		}
	}
}

// SendOTPEmail enqueues the one-time sign-in code email. No in-app
// notification is written for login codes.
func (d *NotificationDispatcher) SendOTPEmail(ctx context.Context, to, code string, expiresIn time.Duration) error {
	subject, body, err := d.renderTemplate(TemplateOTP, map[string]interface{}{
		"Code":      code,
		"ExpiresIn": expiresIn.String(),
	})
	if err != nil {
		return fmt.Errorf("render OTP email: %w", err)
	}

	if _, err := d.queue.Enqueue(queue.TypeEmailDelivery, queue.EmailDeliveryPayload{
		To:      to,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return fmt.Errorf("enqueue OTP email: %w", err)
	}
	return nil
}

// only expose dispatcher, the service is wrapped under it

func (d *NotificationDispatcher) GetUserNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]store.Notification, error) {
	return d.svc.GetUserNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (d *NotificationDispatcher) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return d.svc.MarkAsRead(ctx, userID, notificationID)
}

func (d *NotificationDispatcher) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return d.svc.MarkAllAsRead(ctx, userID)
}

func (d *NotificationDispatcher) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return d.svc.GetUnreadCount(ctx, userID)
}

// {{define "name:subject"}} and {{define "name:body"}}
func (d *NotificationDispatcher) renderTemplate(name string, data map[string]interface{}) (subject, body string, err error) {
	var subjectBuf bytes.Buffer
	if err = d.templates.ExecuteTemplate(&subjectBuf, name+":subject", data); err != nil {
		return "", "", fmt.Errorf("render subject for %q: %w", name, err)
	}

	var bodyBuf bytes.Buffer
	if err = d.templates.ExecuteTemplate(&bodyBuf, name+":body", data); err != nil {
		return "", "", fmt.Errorf("render body for %q: %w", name, err)
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}
