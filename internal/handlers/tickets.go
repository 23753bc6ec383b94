package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hostify/internal/services"
)

type TicketHandler struct {
	svc *Services
}

type createTicketRequest struct {
	Department string `json:"department"`
	Priority   string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Subject    string `json:"subject" validate:"required"`
	Message    string `json:"message" validate:"required"`
	ServiceID  *uint  `json:"service_id"`
}

func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid ticket payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.svc.Tickets.CreateTicket(currentUserID(c), services.CreateTicketInput{
		Department: req.Department,
		Priority:   req.Priority,
		Subject:    req.Subject,
		Message:    req.Message,
		ServiceID:  req.ServiceID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) List(c echo.Context) error {
	tickets, err := h.svc.Tickets.ListTickets(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Get(c echo.Context) error {
	userID := currentUserID(c)
	if isAdmin(c) {
		userID = 0
	}
	ticket, err := h.svc.Tickets.GetTicket(c.Param("uuid"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

type replyRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *TicketHandler) Reply(c echo.Context) error {
	return h.reply(c, false)
}

// AdminReply posts a staff reply, which flips the ticket to answered and
// emails the customer.
func (h *TicketHandler) AdminReply(c echo.Context) error {
	return h.reply(c, true)
}

func (h *TicketHandler) reply(c echo.Context, isStaff bool) error {
	var req replyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid reply payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.svc.Tickets.Reply(c.Param("uuid"), currentUserID(c), req.Message, isStaff)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Close(c echo.Context) error {
	ticket, err := h.svc.Tickets.Close(c.Param("uuid"), currentUserID(c), false)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) AdminClose(c echo.Context) error {
	ticket, err := h.svc.Tickets.Close(c.Param("uuid"), currentUserID(c), true)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) AdminList(c echo.Context) error {
	tickets, err := h.svc.Tickets.ListTickets(0)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tickets)
}
