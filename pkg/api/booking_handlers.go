package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/models"
	"rideadmin/service"
)

// GET /api/bookings?q=&status=pending
func (h *Handler) listBookings(c *gin.Context) {
	bookings, err := h.svc.Booking().List(c.Request.Context(), service.BookingFilter{
		Query:  c.Query("q"),
		Status: models.BookingStatus(c.Query("status")),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) getBooking(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.svc.Booking().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) createBooking(c *gin.Context) {
	var in service.BookingInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.svc.Booking().Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) updateBooking(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var in service.BookingInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.svc.Booking().Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) deleteBooking(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Booking().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) confirmBooking(c *gin.Context) {
	h.moveBooking(c, h.svc.Booking().Confirm)
}

func (h *Handler) completeBooking(c *gin.Context) {
	h.moveBooking(c, h.svc.Booking().Complete)
}

func (h *Handler) cancelBooking(c *gin.Context) {
	h.moveBooking(c, h.svc.Booking().Cancel)
}

func (h *Handler) moveBooking(c *gin.Context, move func(context.Context, int64) (*models.Booking, error)) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := move(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/estimate?category=Sedans&miles=15&hours=0&mode=distance
func (h *Handler) estimateBooking(c *gin.Context) {
	miles, hours, mode, err := tripQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	q, err := h.svc.Booking().Estimate(c.Request.Context(), c.Query("category"), miles, hours, mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
