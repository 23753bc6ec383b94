package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"hostify/internal/services"
)

// Validator plugs go-playground/validator into echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Services groups everything the routes need.
type Services struct {
	Catalog    *services.CatalogService
	Cart       *services.CartService
	Orders     *services.OrderService
	Domains    *services.DomainService
	Tickets    *services.TicketService
	Settings   *services.SettingsService
	AIChat     *services.AIChatService
	Dispatcher *services.Dispatcher
}

// RegisterRoutes mounts the public, customer and admin route groups.
// Authentication is external: an upstream gateway sets X-User-ID and
// X-User-Role; handlers only read them.
func RegisterRoutes(e *echo.Echo, svc *Services) {
	catalog := &CatalogHandler{svc: svc}
	orders := &OrderHandler{svc: svc}
	domains := &DomainHandler{svc: svc}
	tickets := &TicketHandler{svc: svc}
	settings := &SettingsHandler{svc: svc}
	aichat := &AIChatHandler{svc: svc}
	notifications := &NotificationHandler{svc: svc}

	// Public surface.
	e.GET("/products", catalog.ListProducts)
	e.GET("/products/:slug", catalog.GetProduct)
	e.GET("/categories", catalog.ListCategories)
	e.GET("/tlds", catalog.ListTlds)
	e.GET("/domains/search", domains.Search)
	e.GET("/domains/whois/:domain", domains.Whois)
	e.GET("/settings/public", settings.Public)
	e.POST("/orders/validate-cart", orders.ValidateCart)
	e.POST("/orders/apply-coupon", orders.ApplyCoupon)
	e.POST("/ai-agent/chat", aichat.Chat)
	e.POST("/ai-agent/validate", aichat.Validate)

	// Customer surface, requires an authenticated user.
	user := e.Group("", requireUser)
	user.POST("/orders", orders.Create)
	user.GET("/orders", orders.List)
	user.GET("/orders/:uuid", orders.Get)
	user.GET("/invoices", orders.ListInvoices)
	user.GET("/invoices/:uuid", orders.GetInvoice)
	user.GET("/services", orders.ListServices)
	user.POST("/tickets", tickets.Create)
	user.GET("/tickets", tickets.List)
	user.GET("/tickets/:uuid", tickets.Get)
	user.POST("/tickets/:uuid/reply", tickets.Reply)
	user.POST("/tickets/:uuid/close", tickets.Close)
	user.GET("/notifications", notifications.List)
	user.POST("/notifications/:uuid/read", notifications.MarkRead)
	user.POST("/notifications/read-all", notifications.MarkAllRead)

	// Admin back office.
	admin := e.Group("/admin", requireAdmin)
	admin.GET("/orders", orders.AdminList)
	admin.PUT("/orders/:uuid/status", orders.AdminUpdateStatus)
	admin.GET("/tickets", tickets.AdminList)
	admin.POST("/tickets/:uuid/reply", tickets.AdminReply)
	admin.POST("/tickets/:uuid/close", tickets.AdminClose)
	admin.GET("/settings", settings.AdminList)
	admin.PUT("/settings/:key", settings.AdminUpsert)
	admin.DELETE("/settings/:key", settings.AdminDelete)
	admin.POST("/products", catalog.AdminSaveProduct)
	admin.PUT("/products/:id", catalog.AdminSaveProduct)
	admin.DELETE("/products/:id", catalog.AdminDeleteProduct)
	admin.POST("/tlds", catalog.AdminSaveTld)
	admin.PUT("/tlds/:id", catalog.AdminSaveTld)
	admin.DELETE("/tlds/:id", catalog.AdminDeleteTld)
	admin.GET("/notifications", notifications.AdminList)
	admin.POST("/notifications/:uuid/read", notifications.AdminMarkRead)
	admin.POST("/notifications/read-all", notifications.AdminMarkAllRead)
}

func currentUserID(c echo.Context) uint {
	id, err := strconv.ParseUint(c.Request().Header.Get("X-User-ID"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func isAdmin(c echo.Context) bool {
	return c.Request().Header.Get("X-User-Role") == "admin"
}

func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentUserID(c) == 0 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		return next(c)
	}
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !isAdmin(c) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}
		return next(c)
	}
}

// fail maps domain errors to statuses: coupon/ticket rule violations are 400,
// unknown references 404, everything else a 500.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, services.ErrTicketClosed),
		errors.Is(err, services.ErrEmptyOrder),
		services.IsCouponError(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
