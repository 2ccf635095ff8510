package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestExportCSVEmpty(t *testing.T) {
	db := setupTestDB(t)

	data, err := ExportCSV(db)
	assert.ErrorIs(t, err, ErrNoLogs)
	assert.Nil(t, data)
}

func TestExportCSVRendersRows(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{Name: "Abbas"}
	require.NoError(t, db.Create(&customer).Error)

	sentAt := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&model.MessageLog{
		CustomerID: customer.ID,
		EventType:  model.EventBirthdayWishes,
		Message:    "Happy Birthday, Abbas! Wishing you a wonderful year ahead. – Your Watch Retailer",
		SentAt:     sentAt,
		Status:     model.MessageStatusSent,
	}).Error)

	data, err := ExportCSV(db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "id,customer_id,customer_name,event_type,message,sent_at,status", lines[0])
	assert.Contains(t, lines[1], "birthday_wishes")
	assert.Contains(t, lines[1], "Abbas")
	assert.Contains(t, lines[1], "2024-05-15T09:00:00")
	assert.Contains(t, lines[1], "sent")
}

func TestExportCSVNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	customer := model.Customer{Name: "Abbas"}
	require.NoError(t, db.Create(&customer).Error)

	older := time.Date(2024, time.May, 14, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.MessageLog{
		CustomerID: customer.ID,
		EventType:  model.EventBundlingOffers,
		Message:    "older",
		SentAt:     older,
		Status:     model.MessageStatusSent,
	}).Error)
	require.NoError(t, db.Create(&model.MessageLog{
		CustomerID: customer.ID,
		EventType:  model.EventBundlingOffers,
		Message:    "newer",
		SentAt:     newer,
		Status:     model.MessageStatusSent,
	}).Error)

	data, err := ExportCSV(db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "newer")
	assert.Contains(t, lines[2], "older")
}

func TestExportCSVMissingCustomerName(t *testing.T) {
	db := setupTestDB(t)

	// A log row whose customer no longer resolves still exports, with an
	// empty customer_name column
	require.NoError(t, db.Create(&model.MessageLog{
		CustomerID: 42,
		EventType:  model.EventBundlingOffers,
		Message:    "orphan",
		SentAt:     time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC),
		Status:     model.MessageStatusSent,
	}).Error)

	data, err := ExportCSV(db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "1,42,,"), "expected empty customer_name, got %q", lines[1])
}
