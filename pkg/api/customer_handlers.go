package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/models"
	"rideadmin/service"
)

// GET /api/customers?q=&status=all|active|suspended|banned
func (h *Handler) listCustomers(c *gin.Context) {
	status := c.Query("status")
	if status == "all" {
		status = ""
	}
	customers, err := h.svc.Customer().List(c.Request.Context(), service.CustomerFilter{
		Query:  c.Query("q"),
		Status: models.CustomerStatus(status),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cu, err := h.svc.Customer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var in service.CustomerInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	cu, err := h.svc.Customer().Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cu)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var in service.CustomerInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	cu, err := h.svc.Customer().Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Customer().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) suspendCustomer(c *gin.Context) {
	h.moveCustomer(c, h.svc.Customer().Suspend)
}

func (h *Handler) activateCustomer(c *gin.Context) {
	h.moveCustomer(c, h.svc.Customer().Activate)
}

func (h *Handler) banCustomer(c *gin.Context) {
	h.moveCustomer(c, h.svc.Customer().Ban)
}

func (h *Handler) moveCustomer(c *gin.Context, move func(context.Context, int64) (*models.Customer, error)) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cu, err := move(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}
