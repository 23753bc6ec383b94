package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/config"
	"hostify/internal/models"
)

// Payment methods settled outside the gateway start as "pending"; gateway
// methods start as "unpaid". Activation keys off payment_status, not method.
var offlinePaymentMethods = map[string]bool{
	"bank_transfer": true,
	"cash":          true,
}

type CreateOrderInput struct {
	Items          []CartItemRequest
	CouponCode     string
	PaymentMethod  string
	PaymentProof   string
	BillingAddress string
	Notes          string
	ClientIP       string
}

// OrderService persists orders with their items and invoice, and runs the
// activation workflow that materializes services from paid orders.
type OrderService struct {
	db         *gorm.DB
	cart       *CartService
	dispatcher *Dispatcher
	cfg        *config.Config
	logger     *zap.Logger
}

func NewOrderService(db *gorm.DB, cart *CartService, dispatcher *Dispatcher, cfg *config.Config, logger *zap.Logger) *OrderService {
	return &OrderService{db: db, cart: cart, dispatcher: dispatcher, cfg: cfg, logger: logger}
}

// CreateOrder reprices the cart and writes Order, OrderItems and the Invoice
// in one transaction. The coupon is redeemed inside the same transaction.
func (s *OrderService) CreateOrder(userID uint, in CreateOrderInput) (*models.Order, error) {
	cart, err := s.cart.PriceCart(in.Items, in.CouponCode)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	paymentStatus := models.PaymentUnpaid
	if offlinePaymentMethods[in.PaymentMethod] {
		paymentStatus = models.PaymentPending
	}

	order := models.Order{
		UUID:           uuid.NewString(),
		UserID:         userID,
		OrderNumber:    s.newOrderNumber(),
		Status:         models.OrderPending,
		PaymentStatus:  paymentStatus,
		PaymentMethod:  in.PaymentMethod,
		PaymentProof:   in.PaymentProof,
		Subtotal:       cart.Subtotal,
		Discount:       cart.Discount,
		Total:          cart.Total,
		BillingAddress: in.BillingAddress,
		Notes:          in.Notes,
		ClientIP:       in.ClientIP,
	}
	if cart.Coupon != nil {
		order.CouponCode = cart.Coupon.Code
	}

	for _, it := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    it.ProductID,
			ProductType:  it.Type,
			ProductName:  it.ProductName,
			DomainName:   it.DomainName,
			BillingCycle: it.BillingCycle,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalPrice:   it.TotalPrice,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		dueDays := s.cfg.InvoiceDueDays
		if dueDays <= 0 {
			dueDays = 7
		}
		invoice := models.Invoice{
			UUID:          uuid.NewString(),
			UserID:        userID,
			OrderID:       &order.ID,
			InvoiceNumber: "INV-" + order.OrderNumber,
			Status:        models.InvoiceUnpaid,
			Subtotal:      order.Subtotal,
			Discount:      order.Discount,
			Total:         order.Total,
			DueDate:       time.Now().AddDate(0, 0, dueDays),
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		if cart.Coupon != nil {
			if err := s.cart.RedeemCoupon(tx, cart.Coupon.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", userID),
		zap.Float64("total", order.Total),
	)

	s.dispatcher.Enqueue(Event{
		Audience: models.AudienceAdmin,
		Type:     "order_created",
		Title:    "New order " + order.OrderNumber,
		Message:  fmt.Sprintf("Order %s placed for $%.2f via %s", order.OrderNumber, order.Total, order.PaymentMethod),
		Icon:     "shopping-cart",
		Color:    "blue",
		Link:     "/admin/orders/" + order.UUID,
	})

	return &order, nil
}

// UpdateOrderStatus applies an admin or webhook status mutation and runs the
// activation workflow. Re-entrant: replaying the same transition creates no
// additional services.
func (s *OrderService) UpdateOrderStatus(orderUUID string, status, paymentStatus *string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("uuid = ?", orderUUID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	prevStatus := order.Status
	prevPayment := order.PaymentStatus

	if status != nil {
		order.Status = *status
	}
	if paymentStatus != nil {
		order.PaymentStatus = *paymentStatus
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]any{"status": order.Status, "payment_status": order.PaymentStatus}).Error; err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentPaid && prevPayment != models.PaymentPaid {
		s.markInvoicePaid(order.ID)
		s.dispatcher.Enqueue(Event{
			Audience: models.AudienceUser,
			UserID:   order.UserID,
			Type:     "order_paid",
			Title:    "Payment received",
			Message:  fmt.Sprintf("Payment for order %s has been confirmed.", order.OrderNumber),
			Icon:     "credit-card",
			Color:    "green",
			Link:     "/orders/" + order.UUID,
			Email:    s.orderEmail(order.UserID, "Payment received for "+order.OrderNumber, fmt.Sprintf("We have received your payment of $%.2f for order %s.", order.Total, order.OrderNumber)),
		})
	}

	// Checked on every update: services are created the first time the
	// order is simultaneously active and paid, wherever that happens.
	if order.Status == models.OrderActive && order.PaymentStatus == models.PaymentPaid {
		created, err := s.activateServices(&order)
		if err != nil {
			return nil, err
		}
		if created && prevStatus != models.OrderActive {
			s.dispatcher.Enqueue(Event{
				Audience: models.AudienceUser,
				UserID:   order.UserID,
				Type:     "order_completed",
				Title:    "Order activated",
				Message:  fmt.Sprintf("Your order %s is now active.", order.OrderNumber),
				Icon:     "check-circle",
				Color:    "green",
				Link:     "/orders/" + order.UUID,
				Email:    s.orderEmail(order.UserID, "Your services are ready", fmt.Sprintf("All services from order %s have been activated.", order.OrderNumber)),
			})
		}
	}

	if order.Status == models.OrderCancelled && prevStatus != models.OrderCancelled {
		// Existing services are left untouched on cancellation.
		s.dispatcher.Enqueue(Event{
			Audience: models.AudienceUser,
			UserID:   order.UserID,
			Type:     "order_cancelled",
			Title:    "Order cancelled",
			Message:  fmt.Sprintf("Order %s has been cancelled.", order.OrderNumber),
			Icon:     "x-circle",
			Color:    "red",
			Link:     "/orders/" + order.UUID,
		})
	}

	return &order, nil
}

// activateServices creates one service per order item, exactly once per item.
// The existence check is the primary guard; the unique index on order_item_id
// backstops concurrent replays. Returns whether services were created.
func (s *OrderService) activateServices(order *models.Order) (bool, error) {
	itemIDs := make([]uint, 0, len(order.Items))
	for _, it := range order.Items {
		itemIDs = append(itemIDs, it.ID)
	}
	if len(itemIDs) == 0 {
		return false, nil
	}

	var existing int64
	if err := s.db.Model(&models.Service{}).Where("order_item_id IN ?", itemIDs).Count(&existing).Error; err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	now := time.Now()
	rows := make([]models.Service, 0, len(order.Items))
	for _, it := range order.Items {
		rows = append(rows, models.Service{
			UUID:             uuid.NewString(),
			UserID:           order.UserID,
			OrderItemID:      it.ID,
			ProductID:        it.ProductID,
			Type:             it.ProductType,
			Name:             it.ProductName,
			DomainName:       it.DomainName,
			Status:           models.ServiceActive,
			BillingCycle:     it.BillingCycle,
			Amount:           it.TotalPrice,
			NextDueDate:      NextDueDate(now, it.BillingCycle),
			RegistrationDate: now,
		})
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return false, err
	}

	s.logger.Info("services activated",
		zap.String("order_number", order.OrderNumber),
		zap.Int("count", len(rows)),
	)
	return true, nil
}

// NextDueDate computes the first renewal date for a billing cycle.
// Unrecognized cycles bill monthly.
func NextDueDate(from time.Time, cycle string) time.Time {
	months := 1
	switch strings.ToLower(cycle) {
	case models.CycleMonthly:
		months = 1
	case models.CycleQuarterly:
		months = 3
	case models.CycleSemiannual:
		months = 6
	case models.CycleAnnual, "yearly":
		months = 12
	case models.CycleBiennial:
		months = 24
	case models.CycleTriennial:
		months = 36
	}
	return from.AddDate(0, months, 0)
}

func (s *OrderService) markInvoicePaid(orderID uint) {
	now := time.Now()
	err := s.db.Model(&models.Invoice{}).
		Where("order_id = ? AND status = ?", orderID, models.InvoiceUnpaid).
		Updates(map[string]any{"status": models.InvoicePaid, "paid_at": &now}).Error
	if err != nil {
		s.logger.Error("failed to settle invoice", zap.Uint("order_id", orderID), zap.Error(err))
	}
}

// orderEmail builds the email side of an event, or nil when the user has no
// address on file.
func (s *OrderService) orderEmail(userID uint, subject, body string) *EmailMessage {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil || user.Email == "" {
		return nil
	}
	return &EmailMessage{To: user.Email, Subject: subject, Body: body}
}

const orderNumberCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// newOrderNumber builds prefix + base-36 timestamp + 4 random characters.
// Collisions are treated as negligible.
func (s *OrderService) newOrderNumber() string {
	prefix := s.cfg.OrderPrefix
	if prefix == "" {
		prefix = "ORD"
	}
	ts := strconv.FormatInt(time.Now().UnixNano(), 36)

	suffix := make([]byte, 4)
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err == nil {
		for i, b := range buf {
			suffix[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
		}
	} else {
		copy(suffix, "XXXX")
	}

	return fmt.Sprintf("%s-%s-%s", prefix, strings.ToUpper(ts), suffix)
}

// Read side.

func (s *OrderService) ListOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GetOrder returns the order scoped to its owner; admins pass userID 0.
func (s *OrderService) GetOrder(orderUUID string, userID uint) (*models.Order, error) {
	q := s.db.Preload("Items").Where("uuid = ?", orderUUID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var order models.Order
	err := q.First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListInvoices(userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (s *OrderService) GetInvoice(invoiceUUID string, userID uint) (*models.Invoice, error) {
	q := s.db.Where("uuid = ?", invoiceUUID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var invoice models.Invoice
	err := q.First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *OrderService) ListServices(userID uint) ([]models.Service, error) {
	var services []models.Service
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&services).Error
	return services, err
}
