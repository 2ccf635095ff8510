package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Abbaskay/watch-sense/internal/rules"
	"github.com/Abbaskay/watch-sense/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var ruleEngine *rules.Engine

// SetRuleEngine wires the rule engine used by the event handlers.
func SetRuleEngine(e *rules.Engine) {
	ruleEngine = e
}

// ListRules returns the fixed rule catalog
func ListRules(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"rules": rules.Catalog(),
	})
}

// RunRules triggers a rule evaluation run for today against the
// caller's tenant and returns the number of messages logged.
func RunRules(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := c.Get("tenant_id").(uint)
	if !ok {
		log.Error("Missing tenant context on rule run")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant context required"})
	}

	count, err := ruleEngine.Run(c.Request().Context(), tenantID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, rules.ErrRunInProgress) {
			log.Warn("Rule run rejected, another run in progress", zap.Uint("tenant_id", tenantID))
			return c.JSON(http.StatusConflict, echo.Map{"error": "rule evaluation already in progress"})
		}
		log.Error("Rule run failed", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rule evaluation failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":         "Event check completed",
		"messages_logged": count,
	})
}
