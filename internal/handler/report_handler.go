package handler

import (
	"errors"
	"net/http"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/internal/report"
	"github.com/Abbaskay/watch-sense/pkg/database"
	"github.com/Abbaskay/watch-sense/pkg/logger"
	"github.com/Abbaskay/watch-sense/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListMessageLogs returns all message logs newest-first
func ListMessageLogs(c echo.Context) error {
	log := logger.FromContext(c)

	var logs []model.MessageLog
	result := database.GetDB().Order("sent_at DESC").Find(&logs)
	if result.Error != nil {
		log.Error("Failed to list message logs", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve message logs",
		})
	}

	return c.JSON(http.StatusOK, logs)
}

// DownloadReport renders the message log as a CSV attachment. An empty
// log is a distinct "nothing to export" condition, not a server error.
func DownloadReport(c echo.Context) error {
	log := logger.FromContext(c)

	data, err := report.ExportCSV(database.GetDB())
	if err != nil {
		if errors.Is(err, report.ErrNoLogs) {
			log.Warn("Export requested with no message logs")
			prometheus.ExportCounter.WithLabelValues("empty").Inc()
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no logs to export"})
		}
		log.Error("Failed to export message logs", zap.Error(err))
		prometheus.ExportCounter.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}

	prometheus.ExportCounter.WithLabelValues("ok").Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="message_logs.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
