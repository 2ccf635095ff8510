package handler

import (
	"net/http"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/database"
	"github.com/Abbaskay/watch-sense/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WatchRequest defines the structure for watch creation requests
type WatchRequest struct {
	CustomerID   uint   `json:"customer_id"`
	Brand        string `json:"brand,omitempty"`
	ModelNo      string `json:"model_no,omitempty"`
	SerialNo     string `json:"serial_no,omitempty"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ListWatches handles retrieving all watches with their customers
func ListWatches(c echo.Context) error {
	log := logger.FromContext(c)

	var watches []model.Watch
	result := database.GetDB().Preload("Customer").Order("watch_id DESC").Find(&watches)
	if result.Error != nil {
		log.Error("Failed to list watches", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve watches",
		})
	}

	log.Info("Watches retrieved successfully", zap.Int("count", len(watches)))
	return c.JSON(http.StatusOK, watches)
}

// CreateWatch handles creating a new watch for a customer
func CreateWatch(c echo.Context) error {
	log := logger.FromContext(c)

	var req WatchRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.CustomerID == 0 {
		log.Warn("Watch creation without customer")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "customer_id is required",
		})
	}

	// The watch must reference an existing customer
	var customer model.Customer
	if result := database.GetDB().First(&customer, req.CustomerID); result.Error != nil {
		log.Error("Customer not found", zap.Uint("customer_id", req.CustomerID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	purchaseDate, err := parseOptionalDate(req.PurchaseDate)
	if err != nil {
		log.Warn("Invalid purchase_date", zap.String("purchase_date", req.PurchaseDate), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "purchase_date must be YYYY-MM-DD",
		})
	}

	tenantID, _ := c.Get("tenant_id").(uint)

	watch := model.Watch{
		TenantID:     tenantID,
		CustomerID:   req.CustomerID,
		Brand:        optionalString(req.Brand),
		ModelNo:      optionalString(req.ModelNo),
		SerialNo:     optionalString(req.SerialNo),
		PurchaseDate: purchaseDate,
		Notes:        optionalString(req.Notes),
	}

	result := database.GetDB().Create(&watch)
	if result.Error != nil {
		log.Error("Failed to create watch",
			zap.Uint("customer_id", req.CustomerID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create watch",
		})
	}

	log.Info("Watch created successfully",
		zap.Uint("watch_id", watch.ID),
		zap.Uint("customer_id", watch.CustomerID))
	return c.JSON(http.StatusCreated, watch)
}
