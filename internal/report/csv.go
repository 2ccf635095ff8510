// Package report renders the accumulated message log as a flat CSV
// file for download.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/Abbaskay/watch-sense/internal/model"

	"gorm.io/gorm"
)

// ErrNoLogs is returned when there is nothing to export. It is a
// reportable empty-result condition, not a failure.
var ErrNoLogs = errors.New("no message logs to export")

// sentAtLayout is ISO-8601 with second precision.
const sentAtLayout = "2006-01-02T15:04:05"

// row is one exported line, message log joined to the customer name.
type row struct {
	ID           uint
	CustomerID   uint
	CustomerName *string
	EventType    string
	Message      string
	SentAt       string
	Status       string
}

// ExportCSV reads all message log rows newest-first and renders them as
// CSV with a fixed header. Returns ErrNoLogs when the log is empty.
func ExportCSV(db *gorm.DB) ([]byte, error) {
	var logs []model.MessageLog
	if err := db.Preload("Customer").Order("sent_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load message logs: %w", err)
	}

	if len(logs) == 0 {
		return nil, ErrNoLogs
	}

	rows := make([]row, 0, len(logs))
	for _, log := range logs {
		r := row{
			ID:         log.ID,
			CustomerID: log.CustomerID,
			EventType:  log.EventType,
			Message:    log.Message,
			SentAt:     log.SentAt.Format(sentAtLayout),
			Status:     log.Status,
		}
		if log.Customer != nil {
			name := log.Customer.Name
			r.CustomerName = &name
		}
		rows = append(rows, r)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "customer_id", "customer_name", "event_type", "message", "sent_at", "status"}); err != nil {
		return nil, err
	}

	for _, r := range rows {
		name := ""
		if r.CustomerName != nil {
			name = *r.CustomerName
		}
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.CustomerID), 10),
			name,
			r.EventType,
			r.Message,
			r.SentAt,
			r.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
