// File: teleka/handlers/admin.go
package handlers

import (
	"net/http"

	"teleka/models"
	"teleka/services/account"
	"teleka/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Accounts account.AccountService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc account.AccountService) *AdminHandler {
	return &AdminHandler{Accounts: svc}
}

type driverIndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PendingDriversHandler lists drivers awaiting review, oldest first.
func (ah *AdminHandler) PendingDriversHandler(c *gin.Context) {
	drivers, err := ah.Accounts.PendingDrivers(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch pending drivers", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch pending drivers")
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// ApproveDriverHandler approves the pending driver at the given index.
func (ah *AdminHandler) ApproveDriverHandler(c *gin.Context) {
	index, ok := bindDriverIndex(c)
	if !ok {
		return
	}
	driver, err := ah.Accounts.ApproveDriver(c.Request.Context(), index)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver approved.", "driver": driver})
}

// RejectDriverHandler drops the pending driver at the given index.
func (ah *AdminHandler) RejectDriverHandler(c *gin.Context) {
	index, ok := bindDriverIndex(c)
	if !ok {
		return
	}
	driver, err := ah.Accounts.RejectDriver(c.Request.Context(), index)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver rejected.", "driver": driver})
}

func bindDriverIndex(c *gin.Context) (int, bool) {
	var req driverIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return 0, false
	}
	return *req.Index, true
}

// NotificationsHandler returns the latest admin feed entries.
func (ah *AdminHandler) NotificationsHandler(c *gin.Context) {
	feed, err := ah.Accounts.Notifications(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch notifications", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	c.JSON(http.StatusOK, feed)
}

// GetFareSettingsHandler returns the current fare settings.
func (ah *AdminHandler) GetFareSettingsHandler(c *gin.Context) {
	settings, err := ah.Accounts.FareSettings(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch fare settings", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch fare settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateFareSettingsHandler replaces the fare settings.
func (ah *AdminHandler) UpdateFareSettingsHandler(c *gin.Context) {
	var settings models.FareSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}
	if err := ah.Accounts.UpdateFareSettings(c.Request.Context(), settings); err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fare settings updated.", "settings": settings})
}
