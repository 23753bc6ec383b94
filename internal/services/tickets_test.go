package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/models"
)

func newTicketService(t *testing.T, db *gorm.DB) *TicketService {
	t.Helper()
	return NewTicketService(db, newTestDispatcher(t, db), testConfig(), zap.NewNop())
}

func TestCreateTicketOpensWithFirstMessage(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(t, db)
	user := seedUser(t, db)

	ticket, err := svc.CreateTicket(user.ID, CreateTicketInput{
		Subject: "Site down",
		Message: "My site returns 502.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Equal(t, "support", ticket.Department)
	assert.Equal(t, "medium", ticket.Priority)
	require.Len(t, ticket.Replies, 1)
	assert.False(t, ticket.Replies[0].IsStaff)
}

func TestReplyStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(t, db)
	user := seedUser(t, db)

	ticket, err := svc.CreateTicket(user.ID, CreateTicketInput{Subject: "Help", Message: "First"})
	require.NoError(t, err)

	// Staff reply answers the ticket.
	updated, err := svc.Reply(ticket.UUID, 99, "We are on it.", true)
	require.NoError(t, err)
	assert.Equal(t, models.TicketAnswered, updated.Status)

	// Customer reply flips it back to customer-reply.
	updated, err = svc.Reply(ticket.UUID, user.ID, "Still broken.", false)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCustomerReply, updated.Status)
	assert.Len(t, updated.Replies, 3)
}

func TestReplyToClosedTicketRejectedWithoutRow(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(t, db)
	user := seedUser(t, db)

	ticket, err := svc.CreateTicket(user.ID, CreateTicketInput{Subject: "Help", Message: "First"})
	require.NoError(t, err)

	_, err = svc.Close(ticket.UUID, user.ID, false)
	require.NoError(t, err)

	_, err = svc.Reply(ticket.UUID, user.ID, "One more thing", false)
	assert.ErrorIs(t, err, ErrTicketClosed)

	var replies int64
	require.NoError(t, db.Model(&models.TicketReply{}).Where("ticket_id = ?", ticket.ID).Count(&replies).Error)
	assert.EqualValues(t, 1, replies, "rejected reply must not be persisted")
}

func TestReplyScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(t, db)
	user := seedUser(t, db)

	ticket, err := svc.CreateTicket(user.ID, CreateTicketInput{Subject: "Help", Message: "First"})
	require.NoError(t, err)

	_, err = svc.Reply(ticket.UUID, user.ID+1, "not mine", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTicketService(t, db)
	user := seedUser(t, db)

	ticket, err := svc.CreateTicket(user.ID, CreateTicketInput{Subject: "Help", Message: "First"})
	require.NoError(t, err)

	_, err = svc.Close(ticket.UUID, user.ID, false)
	require.NoError(t, err)
	closed, err := svc.Close(ticket.UUID, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, closed.Status)
}
