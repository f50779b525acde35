package handlers

import (
	"errors"
	"net/http"

	"teleka/models"
	"teleka/services/account"
	"teleka/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler serves registration, login and booking intake.
type AccountHandler struct {
	Accounts account.AccountService
}

func NewAccountHandler(svc account.AccountService) *AccountHandler {
	return &AccountHandler{Accounts: svc}
}

// RegisterCustomerHandler handles POST /api/register/customer.
func (h *AccountHandler) RegisterCustomerHandler(c *gin.Context) {
	var req models.CustomerRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Accounts.RegisterCustomer(c.Request.Context(), req); err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Customer registered successfully."})
}

// RegisterDriverHandler handles POST /api/register/driver.
func (h *AccountHandler) RegisterDriverHandler(c *gin.Context) {
	var req models.DriverRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Accounts.RegisterDriver(c.Request.Context(), req); err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Driver registration submitted for approval."})
}

// LoginHandler handles POST /api/login.
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Accounts.Login(c.Request.Context(), req)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateBookingHandler handles POST /api/bookings.
func (h *AccountHandler) CreateBookingHandler(c *gin.Context) {
	var req models.Booking
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.Accounts.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeAccountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking received.", "booking": booking})
}

// writeAccountError maps service errors onto HTTP statuses.
func writeAccountError(c *gin.Context, err error) {
	var accErr account.AccountError
	if !errors.As(err, &accErr) {
		getLogger(c).Error("account operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusBadRequest
	switch accErr.Code {
	case account.CodeUnauthorized:
		status = http.StatusUnauthorized
	case account.CodePending:
		status = http.StatusForbidden
	case account.CodeNotFound:
		status = http.StatusNotFound
	}
	utils.JSONError(c, status, accErr.Message)
}
