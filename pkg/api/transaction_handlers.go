package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/models"
	"rideadmin/service"
)

type refundRequest struct {
	Reason string `json:"reason"`
}

func transactionFilter(c *gin.Context) service.TransactionFilter {
	return service.TransactionFilter{
		Query:     c.Query("q"),
		BookingID: c.Query("booking_id"),
		Status:    models.TransactionStatus(c.Query("status")),
		Type:      models.TransactionType(c.Query("type")),
	}
}

// GET /api/transactions?q=&booking_id=&status=&type=
func (h *Handler) listTransactions(c *gin.Context) {
	txs, err := h.svc.Transaction().List(c.Request.Context(), transactionFilter(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) getTransaction(c *gin.Context) {
	tx, err := h.svc.Transaction().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) recordPayment(c *gin.Context) {
	var in service.PaymentInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	tx, err := h.svc.Transaction().RecordPayment(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) exportTransactions(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Transaction().ExportCSV(c.Request.Context(), &buf, transactionFilter(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) refundQuote(c *gin.Context) {
	q, err := h.svc.Transaction().RefundQuote(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/transactions/:id/refund {"reason": "..."}; :id is the payment.
func (h *Handler) requestRefund(c *gin.Context) {
	var req refundRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			h.fail(c, err)
			return
		}
	}
	tx, err := h.svc.Transaction().RequestRefund(c.Request.Context(), c.Param("id"), req.Reason, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) approveRefund(c *gin.Context) {
	h.decide(c, fare.DecisionApprove)
}

func (h *Handler) rejectRefund(c *gin.Context) {
	h.decide(c, fare.DecisionReject)
}

func (h *Handler) decide(c *gin.Context, d fare.Decision) {
	tx, err := h.svc.Transaction().Decide(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) failTransaction(c *gin.Context) {
	tx, err := h.svc.Transaction().MarkFailed(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
