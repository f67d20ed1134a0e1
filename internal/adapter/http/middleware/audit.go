package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"skin-marketplace/internal/core/domain"
	"skin-marketplace/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type auditedRoute struct {
	action       domain.AuditAction
	resourceType string
}

// auditedRoutes is keyed by method and gin route template.
var auditedRoutes = map[string]auditedRoute{
	"POST /api/v1/auth/register":                     {domain.AuditActionRegister, "account"},
	"POST /api/v1/auth/login":                        {domain.AuditActionLogin, "session"},
	"POST /api/v1/wallet/deposit":                    {domain.AuditActionDeposit, "account"},
	"POST /api/v1/marketplace/listings":              {domain.AuditActionCreateListing, "listing"},
	"DELETE /api/v1/marketplace/listings/:id":        {domain.AuditActionCancelListing, "listing"},
	"POST /api/v1/marketplace/listings/:id/purchase": {domain.AuditActionPurchase, "listing"},
	"POST /api/v1/admin/items":                       {domain.AuditActionCreateItem, "item"},
	"PATCH /api/v1/admin/items/:id":                  {domain.AuditActionEditItem, "item"},
	"DELETE /api/v1/admin/items/:id":                 {domain.AuditActionDeleteItem, "item"},
}

// AuditLog records successful write operations after the handler ran.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		route, ok := mapRouteToAction(c.Request.Method, c.FullPath())
		if !ok {
			return
		}

		var accountID *uuid.UUID
		if caller, ok := CallerFrom(c); ok {
			accountID = &caller.AccountID
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AccountID:    accountID,
			Action:       route.action,
			ResourceType: route.resourceType,
			ResourceID:   resourceID(c),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

// SetResourceID records the id a handler created or modified, for routes without an :id param.
func SetResourceID(c *gin.Context, id uuid.UUID) {
	c.Set(CtxResourceID, id.String())
}

func resourceID(c *gin.Context) string {
	if id := c.GetString(CtxResourceID); id != "" {
		return id
	}
	return c.Param("id")
}

func mapRouteToAction(method, fullPath string) (auditedRoute, bool) {
	if fullPath == "" {
		return auditedRoute{}, false
	}
	route, ok := auditedRoutes[method+" "+fullPath]
	return route, ok
}
