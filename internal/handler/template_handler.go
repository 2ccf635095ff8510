package handler

import (
	"net/http"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/database"
	"github.com/Abbaskay/watch-sense/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TemplateRequest defines the structure for template create/update requests
type TemplateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ListTemplates handles retrieving the tenant's message templates
func ListTemplates(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, _ := c.Get("tenant_id").(uint)

	var templates []model.Template
	result := database.GetDB().Where("tenant_id = ?", tenantID).Find(&templates)
	if result.Error != nil {
		log.Error("Failed to list templates", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve templates",
		})
	}

	return c.JSON(http.StatusOK, templates)
}

// CreateTemplate handles creating a new message template
func CreateTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, _ := c.Get("tenant_id").(uint)

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Name == "" || req.Content == "" {
		log.Warn("Template creation with missing fields")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name and content are required",
		})
	}

	template := model.Template{
		TenantID: tenantID,
		Name:     req.Name,
		Content:  req.Content,
	}

	result := database.GetDB().Create(&template)
	if result.Error != nil {
		log.Error("Failed to create template", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create template",
		})
	}

	log.Info("Template created successfully",
		zap.Uint("template_id", template.ID),
		zap.String("name", template.Name))
	return c.JSON(http.StatusCreated, template)
}

// UpdateTemplate handles editing an existing template of the tenant
func UpdateTemplate(c echo.Context) error {
	log := logger.FromContext(c)
	tenantID, _ := c.Get("tenant_id").(uint)
	id := c.Param("id")

	var template model.Template
	result := database.GetDB().Where("template_id = ? AND tenant_id = ?", id, tenantID).First(&template)
	if result.Error != nil {
		log.Error("Template not found",
			zap.String("template_id", id),
			zap.Uint("tenant_id", tenantID))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Template not found",
		})
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	if req.Content != "" {
		template.Content = req.Content
	}

	if result := database.GetDB().Save(&template); result.Error != nil {
		log.Error("Failed to update template", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update template",
		})
	}

	log.Info("Template updated successfully", zap.Uint("template_id", template.ID))
	return c.JSON(http.StatusOK, template)
}
