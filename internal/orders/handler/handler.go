package handler

import (
	"net/http"

	"orderdesk_backend/internal/orders/domain"
	"orderdesk_backend/internal/orders/service"
	"orderdesk_backend/internal/orders/transport"
	"orderdesk_backend/platform/httpkit"
	"orderdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidOrderID   = "invalid order id"
)

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/attention", h.Attention)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/assign", h.Assign)
	rg.POST("/:id/unassign", h.Unassign)
	rg.POST("/:id/transfer", h.Transfer)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/confirm-payment", h.ConfirmPayment)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/reopen", h.Reopen)
}

// RegisterAdminRoutes mounts dispatch maintenance routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/expire-sweep", h.ExpireSweep)
}

func actorFrom(c *gin.Context) domain.Actor {
	ident := httpkit.MustGetIdentity(c)
	return domain.Actor{ID: ident.UserID(), Role: ident.Role()}
}

func orderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOrderID, "")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, created, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	status := http.StatusCreated
	if !created {
		// Idempotent replay of an earlier submission.
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

func (h *Handler) List(c *gin.Context) {
	var q transport.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}

	resp, err := h.svc.List(c.Request.Context(), actorFrom(c), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), actorFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, err := h.svc.Assign(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Unassign(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}

	resp, err := h.svc.Unassign(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Transfer(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, err := h.svc.Transfer(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Start(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Start(c.Request.Context(), actorFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Complete(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}

	resp, err := h.svc.Complete(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, err := h.svc.ConfirmPayment(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req transport.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "")
		return
	}

	resp, err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Reopen(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	resp, err := h.svc.Reopen(c.Request.Context(), actorFrom(c), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ExpireSweep(c *gin.Context) {
	if err := h.svc.TriggerExpireSweep(c.Request.Context(), actorFrom(c)); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *Handler) Attention(c *gin.Context) {
	resp, err := h.svc.Attention(c.Request.Context(), actorFrom(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Stats(c *gin.Context) {
	var q transport.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}

	resp, err := h.svc.Stats(c.Request.Context(), actorFrom(c), q.Window)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
