package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/service"
)

// GET /api/cities?q=&active=true
func (h *Handler) listCities(c *gin.Context) {
	cities, err := h.svc.City().List(c.Request.Context(), service.CityFilter{
		Query:      c.Query("q"),
		ActiveOnly: c.Query("active") == "true",
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *Handler) getCity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	city, err := h.svc.City().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *Handler) createCity(c *gin.Context) {
	var in service.CityInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	city, err := h.svc.City().Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, city)
}

func (h *Handler) updateCity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	var in service.CityInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	city, err := h.svc.City().Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *Handler) deleteCity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.City().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleCity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	city, err := h.svc.City().ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

// GET /api/cities/:id/quote?km=12.5&minutes=30
func (h *Handler) quoteCity(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	km, err := floatQuery(c, "km")
	if err != nil {
		h.fail(c, err)
		return
	}
	minutes, err := floatQuery(c, "minutes")
	if err != nil {
		h.fail(c, err)
		return
	}
	q, err := h.svc.City().QuoteFare(c.Request.Context(), id, km, minutes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
