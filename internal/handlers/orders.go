package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hostify/internal/services"
)

type OrderHandler struct {
	svc *Services
}

type createOrderRequest struct {
	Items          []services.CartItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode     string                     `json:"coupon_code"`
	PaymentMethod  string                     `json:"payment_method" validate:"required,oneof=card wallet bank_transfer cash"`
	PaymentProof   string                     `json:"payment_proof"`
	BillingAddress string                     `json:"billing_address" validate:"required"`
	Notes          string                     `json:"notes"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.svc.Orders.CreateOrder(currentUserID(c), services.CreateOrderInput{
		Items:          req.Items,
		CouponCode:     req.CouponCode,
		PaymentMethod:  req.PaymentMethod,
		PaymentProof:   req.PaymentProof,
		BillingAddress: req.BillingAddress,
		Notes:          req.Notes,
		ClientIP:       c.RealIP(),
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"order": map[string]any{
		"uuid":           order.UUID,
		"order_number":   order.OrderNumber,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
	}})
}

type validateCartRequest struct {
	Items []services.CartItemRequest `json:"items" validate:"required,dive"`
}

func (h *OrderHandler) ValidateCart(c echo.Context) error {
	var req validateCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid cart payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	cart, err := h.svc.Cart.PriceCart(req.Items, "")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

type applyCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}

func (h *OrderHandler) ApplyCoupon(c echo.Context) error {
	var req applyCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid coupon payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	coupon, discount, err := h.svc.Cart.ValidateCoupon(req.Code, req.Subtotal)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"coupon": coupon, "discount": discount})
}

func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.svc.Orders.ListOrders(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	userID := currentUserID(c)
	if isAdmin(c) {
		userID = 0
	}
	order, err := h.svc.Orders.GetOrder(c.Param("uuid"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListInvoices(c echo.Context) error {
	invoices, err := h.svc.Orders.ListInvoices(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, invoices)
}

func (h *OrderHandler) GetInvoice(c echo.Context) error {
	userID := currentUserID(c)
	if isAdmin(c) {
		userID = 0
	}
	invoice, err := h.svc.Orders.GetInvoice(c.Param("uuid"), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

func (h *OrderHandler) ListServices(c echo.Context) error {
	list, err := h.svc.Orders.ListServices(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) AdminList(c echo.Context) error {
	orders, err := h.svc.Orders.ListAllOrders()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending active cancelled"`
	PaymentStatus *string `json:"payment_status" validate:"omitempty,oneof=pending unpaid paid failed refunded"`
}

// AdminUpdateStatus triggers the activation workflow.
func (h *OrderHandler) AdminUpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == nil && req.PaymentStatus == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "status or payment_status is required"})
	}

	if _, err := h.svc.Orders.UpdateOrderStatus(c.Param("uuid"), req.Status, req.PaymentStatus); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "order updated"})
}
