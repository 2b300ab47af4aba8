package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zagu-ph/ordering-portal/internal/dealer"
	"github.com/zagu-ph/ordering-portal/internal/kintone"
	"github.com/zagu-ph/ordering-portal/internal/notify"
	"github.com/zagu-ph/ordering-portal/internal/order"
)

// writeError maps a failure to its HTTP response. Platform errors keep
// their original status code and message; everything else is a 500.
func writeError(c *gin.Context, err error) {
	var apiErr *kintone.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func healthHandler(kintoneBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"kintone":   kintoneBase,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func loginHandler(svc *dealer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code     string `json:"code"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		d, err := svc.Login(c.Request.Context(), req.Code, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, dealer.ErrMissingLogin):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, dealer.ErrNotFound),
				errors.Is(err, dealer.ErrPendingApproval),
				errors.Is(err, dealer.ErrInactive),
				errors.Is(err, dealer.ErrBadPassword),
				errors.Is(err, dealer.ErrPasswordExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			default:
				writeError(c, err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"dealer": d})
	}
}

func registerHandler(svc *dealer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dealer.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		res, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, dealer.ErrMissingFields), errors.Is(err, dealer.ErrShortPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, dealer.ErrCodeTaken), errors.Is(err, dealer.ErrEmailTaken):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				writeError(c, err)
			}
			return
		}
		body := gin.H{
			"success": true,
			"id":      res.ID,
			"message": "Registration submitted. Your account will be reviewed by Zagu back office.",
		}
		if res.Warning != "" {
			body["pmWarning"] = res.Warning
		}
		c.JSON(http.StatusOK, body)
	}
}

func changePasswordHandler(svc *dealer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code            string `json:"code"`
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		expiry, err := svc.ChangePassword(c.Request.Context(), req.Code, req.CurrentPassword, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, dealer.ErrMissingLogin), errors.Is(err, dealer.ErrShortPassword):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, dealer.ErrNotFound),
				errors.Is(err, dealer.ErrDealerInactive),
				errors.Is(err, dealer.ErrWrongPassword):
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			default:
				writeError(c, err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "newExpiry": expiry})
	}
}

// submitOrderHandler runs the composite workflow. All three outcomes
// (draft, pending_approval, created_but_status_pending) are HTTP 200;
// only a failed create is non-200.
func submitOrderHandler(wf *order.Workflow, pusher *notify.Pusher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Order   order.SubmitRequest `json:"order"`
			IsDraft bool                `json:"isDraft"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}

		o, err := req.Order.ToOrder()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o.IsDraft = req.IsDraft

		res, err := wf.Submit(c.Request.Context(), o)
		if err != nil {
			if order.IsValidationError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			writeError(c, err)
			return
		}

		if !o.IsDraft {
			pusher.Send(c.Request.Context(), "dealer-"+o.DealerCode,
				"Order "+o.OrderNumber+" submitted",
				fmt.Sprintf("Total %s via %s. You will be notified once approved.", o.Total(), o.PaymentMethod))
		}
		c.JSON(http.StatusOK, res)
	}
}

// statusHandler is the manual workflow lever: one action on one
// record. Staff tooling uses the orders variant to unstick orders
// whose submission degraded to created_but_status_pending.
func statusHandler(kc *kintone.Client, appKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID       string `json:"id"`
			Action   string `json:"action"`
			Assignee string `json:"assignee"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		if req.ID == "" || req.Action == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id and action are required"})
			return
		}
		res, err := kc.UpdateStatus(c.Request.Context(), appKey, req.ID, req.Action, req.Assignee)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func requireApp(c *gin.Context, kc *kintone.Client) (string, bool) {
	appKey := c.Param("appKey")
	if _, ok := kc.App(appKey); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown app: " + appKey})
		return "", false
	}
	return appKey, true
}

func getRecordsHandler(kc *kintone.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		appKey, ok := requireApp(c, kc)
		if !ok {
			return
		}
		res, err := kc.GetRecords(c.Request.Context(), appKey, c.Query("query"), c.Query("fields"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func getRecordHandler(kc *kintone.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		appKey, ok := requireApp(c, kc)
		if !ok {
			return
		}
		rec, err := kc.GetRecord(c.Request.Context(), appKey, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec})
	}
}

func createRecordHandler(kc *kintone.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		appKey, ok := requireApp(c, kc)
		if !ok {
			return
		}
		var req struct {
			Record kintone.Record `json:"record"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		res, err := kc.CreateRecord(c.Request.Context(), appKey, req.Record)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func updateRecordHandler(kc *kintone.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		appKey, ok := requireApp(c, kc)
		if !ok {
			return
		}
		var req struct {
			ID     string         `json:"id"`
			Record kintone.Record `json:"record"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
			return
		}
		res, err := kc.UpdateRecord(c.Request.Context(), appKey, req.ID, req.Record)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
