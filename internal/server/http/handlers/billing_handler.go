package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BillingHandler exposes billing cycle control.
type BillingHandler struct {
	trigger CycleTrigger
}

// NewBillingHandler constructs BillingHandler.
func NewBillingHandler(trigger CycleTrigger) *BillingHandler {
	return &BillingHandler{trigger: trigger}
}

// Charge handles POST /api/v1/invoices/charge. The cycle runs asynchronously;
// 503 means a trigger is already queued.
func (h *BillingHandler) Charge(c *gin.Context) {
	if !h.trigger.TriggerCycle() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusAccepted)
}
