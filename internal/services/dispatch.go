package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/models"
)

// Mailer sends a single outbound message. Implemented by MailgunMailer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailMessage is an optional outbound mail attached to an event.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// Event is one best-effort side effect: an in-app notification row plus an
// optional email. Events never carry the caller's transaction.
type Event struct {
	Audience string
	UserID   uint
	Type     string
	Title    string
	Message  string
	Icon     string
	Color    string
	Link     string
	Metadata string
	Email    *EmailMessage
}

// Dispatcher is the fire-and-forget boundary for notifications and email.
// Enqueue never blocks and never fails the caller; delivery runs on a
// background worker with its own error boundary, failures are logged only.
type Dispatcher struct {
	db     *gorm.DB
	mailer Mailer
	logger *zap.Logger

	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(db *gorm.DB, mailer Mailer, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		db:     db,
		mailer: mailer,
		logger: logger,
		queue:  make(chan Event, 256),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Enqueue hands an event to the worker. When the queue is full, or the
// dispatcher is shutting down, the event is dropped with a log line; side
// effects must never block the primary write.
func (d *Dispatcher) Enqueue(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping event",
			zap.String("type", e.Type),
			zap.String("title", e.Title),
		)
		return
	}
	select {
	case d.queue <- e:
	default:
		d.logger.Warn("dispatch queue full, dropping event",
			zap.String("type", e.Type),
			zap.String("title", e.Title),
		)
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Event) {
	n := models.Notification{
		UUID:     uuid.NewString(),
		Audience: e.Audience,
		UserID:   e.UserID,
		Type:     e.Type,
		Title:    e.Title,
		Message:  e.Message,
		Icon:     e.Icon,
		Color:    e.Color,
		Link:     e.Link,
		Metadata: e.Metadata,
	}
	if err := d.db.Create(&n).Error; err != nil {
		d.logger.Error("failed to write notification",
			zap.String("type", e.Type), zap.Error(err))
	}

	if e.Email != nil && d.mailer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := d.mailer.Send(ctx, e.Email.To, e.Email.Subject, e.Email.Body); err != nil {
			d.logger.Error("failed to send email",
				zap.String("to", e.Email.To),
				zap.String("subject", e.Email.Subject),
				zap.Error(err))
		}
	}
}

// Read side. Notification rows are mutated only by read receipts.

func (d *Dispatcher) ListNotifications(audience string, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := d.db.Where("audience = ?", audience)
	if audience == models.AudienceUser {
		q = q.Where("user_id = ?", userID)
	}
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	err := q.Order("created_at DESC").Limit(100).Find(&out).Error
	return out, err
}

// MarkRead records a read receipt. The receipt is scoped to the caller's
// audience (and user for user notifications), so a UUID belonging to someone
// else behaves as if it did not exist.
func (d *Dispatcher) MarkRead(audience string, userID uint, notificationUUID string) error {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Where("uuid = ? AND audience = ?", notificationUUID, audience)
		if audience == models.AudienceUser {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}
	now := time.Now()
	res := scope(d.db.Model(&models.Notification{})).
		Where("read = ?", false).
		Updates(map[string]any{"read": true, "read_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n models.Notification
		if err := scope(d.db).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Already read: receipt is idempotent.
	}
	return nil
}

func (d *Dispatcher) MarkAllRead(audience string, userID uint) error {
	now := time.Now()
	q := d.db.Model(&models.Notification{}).Where("audience = ? AND read = ?", audience, false)
	if audience == models.AudienceUser {
		q = q.Where("user_id = ?", userID)
	}
	return q.Updates(map[string]any{"read": true, "read_at": &now}).Error
}
