package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/config"
	"hostify/internal/models"
)

// TicketService runs the support ticket state machine:
// open → customer-reply ⇄ answered → closed. Closed is terminal.
type TicketService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	cfg        *config.Config
	logger     *zap.Logger
}

func NewTicketService(db *gorm.DB, dispatcher *Dispatcher, cfg *config.Config, logger *zap.Logger) *TicketService {
	return &TicketService{db: db, dispatcher: dispatcher, cfg: cfg, logger: logger}
}

type CreateTicketInput struct {
	Department string
	Priority   string
	Subject    string
	Message    string
	ServiceID  *uint
}

func (s *TicketService) CreateTicket(userID uint, in CreateTicketInput) (*models.Ticket, error) {
	ticket := models.Ticket{
		UUID:         uuid.NewString(),
		UserID:       userID,
		ServiceID:    in.ServiceID,
		TicketNumber: fmt.Sprintf("TKT-%d", time.Now().Unix()),
		Department:   in.Department,
		Priority:     in.Priority,
		Subject:      in.Subject,
		Status:       models.TicketOpen,
		Replies: []models.TicketReply{{
			UserID:  userID,
			Message: in.Message,
			IsStaff: false,
		}},
	}
	if ticket.Department == "" {
		ticket.Department = "support"
	}
	if ticket.Priority == "" {
		ticket.Priority = "medium"
	}

	if err := s.db.Create(&ticket).Error; err != nil {
		return nil, err
	}

	event := Event{
		Audience: models.AudienceAdmin,
		Type:     "ticket_created",
		Title:    "New ticket " + ticket.TicketNumber,
		Message:  ticket.Subject,
		Icon:     "life-buoy",
		Color:    "orange",
		Link:     "/admin/tickets/" + ticket.UUID,
	}
	if s.cfg.AdminEmail != "" {
		event.Email = &EmailMessage{
			To:      s.cfg.AdminEmail,
			Subject: "New support ticket " + ticket.TicketNumber,
			Body:    ticket.Subject,
		}
	}
	s.dispatcher.Enqueue(event)

	return &ticket, nil
}

func (s *TicketService) ListTickets(userID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	q := s.db.Order("updated_at DESC")
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Find(&tickets).Error
	return tickets, err
}

func (s *TicketService) GetTicket(ticketUUID string, userID uint) (*models.Ticket, error) {
	q := s.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("ticket_replies.created_at")
	}).Where("uuid = ?", ticketUUID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var ticket models.Ticket
	err := q.First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Reply appends a message. Closed tickets reject replies with a domain error
// and no row is written. A customer reply flips the ticket to customer-reply
// and notifies staff; a staff reply flips it to answered and emails the owner.
func (s *TicketService) Reply(ticketUUID string, userID uint, message string, isStaff bool) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ticketUUID, 0)
	if err != nil {
		return nil, err
	}
	if !isStaff && ticket.UserID != userID {
		return nil, ErrNotFound
	}
	if ticket.Status == models.TicketClosed {
		return nil, ErrTicketClosed
	}

	newStatus := models.TicketAnswered
	if !isStaff {
		newStatus = models.TicketCustomerReply
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		reply := models.TicketReply{
			TicketID: ticket.ID,
			UserID:   userID,
			Message:  message,
			IsStaff:  isStaff,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
			Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if isStaff {
		s.dispatcher.Enqueue(Event{
			Audience: models.AudienceUser,
			UserID:   ticket.UserID,
			Type:     "ticket_reply",
			Title:    "Reply on ticket " + ticket.TicketNumber,
			Message:  ticket.Subject,
			Icon:     "message-circle",
			Color:    "blue",
			Link:     "/tickets/" + ticket.UUID,
			Email:    s.ownerEmail(ticket.UserID, "Reply on ticket "+ticket.TicketNumber, "Our support team replied to your ticket: "+ticket.Subject),
		})
	} else {
		s.dispatcher.Enqueue(Event{
			Audience: models.AudienceAdmin,
			Type:     "ticket_customer_reply",
			Title:    "Customer replied on " + ticket.TicketNumber,
			Message:  ticket.Subject,
			Icon:     "message-circle",
			Color:    "orange",
			Link:     "/admin/tickets/" + ticket.UUID,
		})
	}

	return s.GetTicket(ticketUUID, 0)
}

// Close is terminal; there is no reopen transition.
func (s *TicketService) Close(ticketUUID string, userID uint, isStaff bool) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ticketUUID, 0)
	if err != nil {
		return nil, err
	}
	if !isStaff && ticket.UserID != userID {
		return nil, ErrNotFound
	}

	if ticket.Status != models.TicketClosed {
		if err := s.db.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
			Update("status", models.TicketClosed).Error; err != nil {
			return nil, err
		}
		ticket.Status = models.TicketClosed
	}
	return ticket, nil
}

func (s *TicketService) ownerEmail(userID uint, subject, body string) *EmailMessage {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil || user.Email == "" {
		return nil
	}
	return &EmailMessage{To: user.Email, Subject: subject, Body: body}
}
