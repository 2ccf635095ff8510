package handler

import (
	"net/http"
	"time"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/database"
	"github.com/Abbaskay/watch-sense/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CustomerRequest defines the structure for customer creation requests.
// The date fields use YYYY-MM-DD and may be omitted, which disables the
// date-based rules for that customer.
type CustomerRequest struct {
	Name         string `json:"name"`
	DOB          string `json:"dob,omitempty"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	Model        string `json:"model,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Email        string `json:"email,omitempty"`
}

// ListCustomers handles retrieving all customers with optional search
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()
	var customers []model.Customer

	query := db

	// Filter across name, email and mobile when a search term is given
	search := c.QueryParam("search")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR mobile LIKE ?", like, like, like)
		log.Info("Filtering customers by search term", zap.String("search", search))
	}

	result := query.Order("id DESC").Find(&customers)
	if result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve customers",
		})
	}

	log.Info("Customers retrieved successfully", zap.Int("count", len(customers)))
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer by ID
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var customer model.Customer
	result := database.GetDB().First(&customer, id)
	if result.Error != nil {
		log.Error("Customer not found",
			zap.String("customer_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Customer not found",
		})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Name == "" {
		log.Warn("Customer creation without name")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name is required",
		})
	}

	dob, err := parseOptionalDate(req.DOB)
	if err != nil {
		log.Warn("Invalid dob", zap.String("dob", req.DOB), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "dob must be YYYY-MM-DD",
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

	customer := model.Customer{
		Name:         req.Name,
		DOB:          dob,
		PurchaseDate: purchaseDate,
		Model:        optionalString(req.Model),
		Mobile:       optionalString(req.Mobile),
		Email:        optionalString(req.Email),
	}
	if tenantID != 0 {
		customer.TenantID = &tenantID
	}

	result := database.GetDB().Create(&customer)
	if result.Error != nil {
		log.Error("Failed to create customer",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create customer",
		})
	}

	log.Info("Customer created successfully",
		zap.Uint("customer_id", customer.ID),
		zap.String("name", customer.Name))
	return c.JSON(http.StatusCreated, customer)
}

// GetDashboard returns the customer list with counters and recent events
func GetDashboard(c echo.Context) error {
	log := logger.FromContext(c)

	db := database.GetDB()

	var customers []model.Customer
	query := db
	search := c.QueryParam("search")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR mobile LIKE ?", like, like, like)
	}
	if err := query.Order("id DESC").Find(&customers).Error; err != nil {
		log.Error("Failed to load customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var totalCustomers, totalWatches, totalEvents int64
	db.Model(&model.Customer{}).Count(&totalCustomers)
	db.Model(&model.Watch{}).Count(&totalWatches)
	db.Model(&model.Event{}).Count(&totalEvents)

	var recentEvents []model.Event
	if err := db.Order("sent_at DESC").Limit(5).Find(&recentEvents).Error; err != nil {
		log.Error("Failed to load recent events", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customers":       customers,
		"search":          search,
		"total_customers": totalCustomers,
		"total_watches":   totalWatches,
		"total_events":    totalEvents,
		"recent_events":   recentEvents,
	})
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
