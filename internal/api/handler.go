package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/i18n"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.Storefront
	resolver   *i18n.Resolver
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.Storefront, resolver *i18n.Resolver) *Handler {
	return &Handler{
		storefront: storefront,
		resolver:   resolver,
		logger:     util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", h.getState)
		v1.GET("/categories", h.getCategories)

		v1.PUT("/draft", h.updateDraft)

		v1.POST("/cart/items", h.addToCart)
		v1.PATCH("/cart/items", h.updateCartItem)
		v1.DELETE("/cart/items", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.POST("/checkout/continue", h.continueToOrder)
		v1.POST("/checkout/back", h.backToShopping)

		v1.PUT("/order-form", h.updateOrderForm)
		v1.POST("/orders", h.submitOrder)

		v1.POST("/dialog/dismiss", h.dismissDialog)
		v1.POST("/session/reset", h.resetSession)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getState(c *gin.Context) {
	h.respond(c, nil)
}

func (h *Handler) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.storefront.Snapshot().Categories,
	})
}

// updateDraft applies whichever draft fields the request carries.
func (h *Handler) updateDraft(c *gin.Context) {
	var req DraftRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.SelectedCategory != nil {
		if err := h.storefront.SelectCategory(*req.SelectedCategory); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid category",
				"details": err.Error(),
			})
			return
		}
	}
	if req.ProductName != nil {
		h.storefront.SetProductName(*req.ProductName)
	}
	if req.ProductQuantity != nil {
		h.storefront.SetProductQuantity(*req.ProductQuantity)
	}

	h.respond(c, nil)
}

// addToCart runs the add-to-cart flow. A rejected draft is reported through
// the dialog, not the status code.
func (h *Handler) addToCart(c *gin.Context) {
	if err := h.storefront.AddToCart(); err != nil {
		h.logger.Debug("Add to cart rejected", zap.Error(err))
	}
	h.respond(c, nil)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req CartItemQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	h.storefront.UpdateCartItemQuantity(req.Category, req.Name, *req.Quantity)
	h.respond(c, nil)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	var req CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	h.storefront.RemoveCartItem(req.Category, req.Name)
	h.respond(c, nil)
}

func (h *Handler) clearCart(c *gin.Context) {
	h.storefront.ClearCart()
	h.respond(c, nil)
}

func (h *Handler) continueToOrder(c *gin.Context) {
	if err := h.storefront.Continue(); err != nil {
		h.logger.Debug("Continue rejected", zap.Error(err))
	}
	h.respond(c, nil)
}

func (h *Handler) backToShopping(c *gin.Context) {
	h.storefront.BackToShopping()
	h.respond(c, nil)
}

func (h *Handler) updateOrderForm(c *gin.Context) {
	var req OrderFormRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.FullName != nil {
		h.storefront.SetFullName(*req.FullName)
	}
	if req.FullAddress != nil {
		h.storefront.SetFullAddress(*req.FullAddress)
	}
	if req.Email != nil {
		h.storefront.SetEmail(*req.Email)
	}

	h.respond(c, nil)
}

// submitOrder handles order submission. Validation and backend failures are
// shown in the dialog and still answer 200.
func (h *Handler) submitOrder(c *gin.Context) {
	confirmation, err := h.storefront.SubmitOrder(c.Request.Context())
	if errors.Is(err, service.ErrSessionEnded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Session ended",
		})
		return
	}
	if err != nil {
		h.logger.Info("Order not submitted", zap.Error(err))
	}
	h.respond(c, confirmation)
}

func (h *Handler) dismissDialog(c *gin.Context) {
	h.storefront.DismissMessage()
	h.respond(c, nil)
}

// resetSession starts a fresh session and reloads the catalog. A failed
// catalog load is reported through the dialog.
func (h *Handler) resetSession(c *gin.Context) {
	if err := h.storefront.Reset(c.Request.Context()); err != nil {
		h.logger.Warn("Catalog reload failed", zap.Error(err))
	}
	h.respond(c, nil)
}

func (h *Handler) respond(c *gin.Context, order *models.OrderConfirmation) {
	locale := h.locale(c)
	view := newStateView(h.storefront.Snapshot(), h.resolver, locale, h.storefront.MaxProductQuantity())
	view.Order = order
	c.JSON(http.StatusOK, view)
}

// locale picks the ?lang= locale when it is available.
func (h *Handler) locale(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" && h.resolver.Supports(lang) {
		return lang
	}
	return h.resolver.Locale()
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// DraftRequest sets any subset of the add-to-cart inputs.
type DraftRequest struct {
	SelectedCategory *string `json:"selectedCategory"`
	ProductName      *string `json:"productName"`
	ProductQuantity  *int    `json:"productQuantity"`
}

// CartItemRequest names one cart line.
type CartItemRequest struct {
	Category string `json:"category" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// CartItemQuantityRequest sets the quantity of one cart line. Zero or less
// removes the line, so the field must be present.
type CartItemQuantityRequest struct {
	Category string `json:"category" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Quantity *int   `json:"quantity" binding:"required"`
}

// OrderFormRequest sets any subset of the customer fields.
type OrderFormRequest struct {
	FullName    *string `json:"fullName"`
	FullAddress *string `json:"fullAddress"`
	Email       *string `json:"email"`
}

// DialogView is a dialog message rendered in one locale.
type DialogView struct {
	Severity   models.Severity     `json:"severity"`
	Title      string              `json:"title"`
	Header     string              `json:"header"`
	Body       string              `json:"body"`
	CloseLabel string              `json:"closeLabel"`
	Style      notify.Presentation `json:"style"`
}

// StateView is the response body of every storefront endpoint.
type StateView struct {
	store.State
	Locale             string                    `json:"locale"`
	Locales            []string                  `json:"locales"`
	Dir                string                    `json:"dir"`
	MaxProductQuantity int                       `json:"maxProductQuantity"`
	Dialog             *DialogView               `json:"dialog"`
	Order              *models.OrderConfirmation `json:"order,omitempty"`
}

func newStateView(snap store.Snapshot, resolver *i18n.Resolver, locale string, maxQuantity int) StateView {
	view := StateView{
		State:              snap.State,
		Locale:             locale,
		Locales:            resolver.Locales(),
		Dir:                resolver.Lookup(locale, "dirAttValue"),
		MaxProductQuantity: maxQuantity,
	}
	if snap.DialogVisible {
		msg := snap.Dialog
		style := notify.Present(msg.Severity)
		view.Dialog = &DialogView{
			Severity:   msg.Severity,
			Title:      resolver.Lookup(locale, style.TitleKey),
			Header:     resolver.Lookup(locale, msg.HeaderKey),
			Body:       resolver.Lookup(locale, msg.BodyKey),
			CloseLabel: resolver.Lookup(locale, msg.CloseLabelKey),
			Style:      style,
		}
	}
	return view
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
