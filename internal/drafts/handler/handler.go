package handler

import (
	"net/http"

	"orderdesk_backend/internal/drafts/service"
	"orderdesk_backend/internal/drafts/transport"
	"orderdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

const msgInvalidRequest = "invalid request"

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/order", h.Get)
	rg.PUT("/order", h.Save)
	rg.DELETE("/order", h.Discard)
	rg.GET("/addresses/recent", h.RecentAddresses)
}

func (h *Handler) Get(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)

	resp, err := h.svc.Get(c.Request.Context(), ident.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Save(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)

	var req transport.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "")
		return
	}

	h.svc.Save(ident.UserID(), req.Draft)
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

func (h *Handler) Discard(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)

	if err := h.svc.Discard(c.Request.Context(), ident.UserID()); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RecentAddresses(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)

	resp, err := h.svc.RecentAddresses(c.Request.Context(), ident.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
