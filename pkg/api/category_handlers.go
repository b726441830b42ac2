package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/fare"
	"rideadmin/service"
)

func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.svc.Vehicle().List(c.Request.Context(), service.VehicleFilter{
		Query:      c.Query("q"),
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cat, err := h.svc.Vehicle().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) createCategory(c *gin.Context) {
	var in service.VehicleInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	cat, err := h.svc.Vehicle().Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var in service.VehicleInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	cat, err := h.svc.Vehicle().Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Vehicle().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	cat, err := h.svc.Vehicle().ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GET /api/vehicle-categories/:id/quote?miles=15&hours=2&mode=combined
func (h *Handler) quoteCategory(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	miles, hours, mode, err := tripQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	q, err := h.svc.Vehicle().QuoteFare(c.Request.Context(), id, miles, hours, mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func tripQuery(c *gin.Context) (float64, float64, fare.Mode, error) {
	miles, err := floatQuery(c, "miles")
	if err != nil {
		return 0, 0, "", err
	}
	hours, err := floatQuery(c, "hours")
	if err != nil {
		return 0, 0, "", err
	}
	mode, err := fare.ParseMode(c.Query("mode"))
	if err != nil {
		return 0, 0, "", err
	}
	return miles, hours, mode, nil
}
