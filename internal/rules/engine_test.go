package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// mockMailer implements mailer.Mailer for testing.
type mockMailer struct {
	configured bool
	sendErr    error
	sent       []string
}

func (m *mockMailer) Configured() bool {
	return m.configured
}

func (m *mockMailer) Send(_ context.Context, recipient, _, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, recipient)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEngine(db *gorm.DB, m *mockMailer) *Engine {
	return NewEngine(db, m, zap.NewNop())
}

func createCustomer(t *testing.T, db *gorm.DB, name string, dob, purchase *time.Time, tenantID *uint, email string) model.Customer {
	watchModel := "Tissot"
	customer := model.Customer{
		Name:         name,
		DOB:          dob,
		PurchaseDate: purchase,
		Model:        &watchModel,
		TenantID:     tenantID,
	}
	if email != "" {
		customer.Email = &email
	}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func countByType(t *testing.T, db *gorm.DB, eventType string) (logs int64, events int64) {
	require.NoError(t, db.Model(&model.MessageLog{}).Where("event_type = ?", eventType).Count(&logs).Error)
	require.NoError(t, db.Model(&model.Event{}).Where("event_type = ?", eventType).Count(&events).Error)
	return logs, events
}

func TestBundlingFiresForEveryCustomer(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})

	tenantID := uint(1)
	for _, name := range []string{"A", "B", "C"} {
		createCustomer(t, db, name, nil, nil, &tenantID, "")
	}

	count, err := engine.Run(context.Background(), tenantID, date(2030, time.March, 3))
	require.NoError(t, err)

	// No dates set, so only the unconditional bundling offer fires
	assert.Equal(t, 3, count)

	logs, events := countByType(t, db, model.EventBundlingOffers)
	assert.Equal(t, int64(3), logs)
	assert.Equal(t, int64(3), events)
}

func TestBatteryRuleBoundary(t *testing.T) {
	tests := []struct {
		name     string
		purchase time.Time
		today    time.Time
		fires    bool
	}{
		{"one day early", date(2023, time.January, 31), date(2024, time.July, 30), false},
		{"due date exactly", date(2023, time.January, 31), date(2024, time.July, 31), true},
		{"well past due", date(2023, time.January, 1), date(2030, time.January, 1), true},
		{"clamped due date", date(2022, time.August, 31), date(2024, time.February, 28), false},
		{"clamped due date leap", date(2022, time.August, 31), date(2024, time.February, 29), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			engine := newTestEngine(db, &mockMailer{})
			tenantID := uint(1)
			purchase := tt.purchase
			createCustomer(t, db, "Abbas", nil, &purchase, &tenantID, "")

			_, err := engine.Run(context.Background(), tenantID, tt.today)
			require.NoError(t, err)

			logs, events := countByType(t, db, model.EventBatteryReplacement)
			if tt.fires {
				assert.Equal(t, int64(1), logs)
				assert.Equal(t, int64(1), events)
			} else {
				assert.Zero(t, logs)
				assert.Zero(t, events)
			}
		})
	}
}

func TestWarrantyRuleElevenMonths(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})
	tenantID := uint(1)
	purchase := date(2023, time.January, 15)
	createCustomer(t, db, "Abbas", nil, &purchase, &tenantID, "")

	// 11 months after purchase, warranty fires but battery does not
	_, err := engine.Run(context.Background(), tenantID, date(2023, time.December, 15))
	require.NoError(t, err)

	warrantyLogs, _ := countByType(t, db, model.EventExtendedWarranty)
	batteryLogs, _ := countByType(t, db, model.EventBatteryReplacement)
	assert.Equal(t, int64(1), warrantyLogs)
	assert.Zero(t, batteryLogs)
}

func TestBirthdayExactMatchOnly(t *testing.T) {
	tests := []struct {
		name  string
		dob   time.Time
		today time.Time
		fires bool
	}{
		{"same month and day", date(1995, time.May, 15), date(2030, time.May, 15), true},
		{"day off by one", date(1995, time.May, 15), date(2030, time.May, 16), false},
		{"month off by one", date(1995, time.May, 15), date(2030, time.June, 15), false},
		{"leap day in leap year", date(1996, time.February, 29), date(2024, time.February, 29), true},
		{"leap day in non-leap year", date(1996, time.February, 29), date(2025, time.February, 28), false},
		{"leap day vs march first", date(1996, time.February, 29), date(2025, time.March, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			engine := newTestEngine(db, &mockMailer{})
			tenantID := uint(1)
			dob := tt.dob
			createCustomer(t, db, "Abbas", &dob, nil, &tenantID, "")

			_, err := engine.Run(context.Background(), tenantID, tt.today)
			require.NoError(t, err)

			logs, events := countByType(t, db, model.EventBirthdayWishes)
			if tt.fires {
				assert.Equal(t, int64(1), logs)
				assert.Equal(t, int64(1), events)
			} else {
				assert.Zero(t, logs)
				assert.Zero(t, events)
			}
		})
	}
}

func TestBirthdayMailOutcomes(t *testing.T) {
	tenantID := uint(1)
	dob := date(1995, time.May, 15)
	today := date(2030, time.May, 15)

	t.Run("mail not configured", func(t *testing.T) {
		db := setupTestDB(t)
		engine := newTestEngine(db, &mockMailer{configured: false})
		createCustomer(t, db, "Abbas", &dob, nil, &tenantID, "abbas@example.com")

		_, err := engine.Run(context.Background(), tenantID, today)
		require.NoError(t, err)

		var msg model.MessageLog
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&msg).Error)
		assert.Equal(t, model.MessageStatusSent, msg.Status)

		var event model.Event
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&event).Error)
		assert.Equal(t, model.ChannelWhatsApp, event.Channel)
		assert.Equal(t, model.EventStatusSent, event.Status)
	})

	t.Run("mail sent", func(t *testing.T) {
		db := setupTestDB(t)
		m := &mockMailer{configured: true}
		engine := newTestEngine(db, m)
		createCustomer(t, db, "Abbas", &dob, nil, &tenantID, "abbas@example.com")

		_, err := engine.Run(context.Background(), tenantID, today)
		require.NoError(t, err)

		assert.Equal(t, []string{"abbas@example.com"}, m.sent)

		var msg model.MessageLog
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&msg).Error)
		assert.Equal(t, model.MessageStatusEmailSent, msg.Status)

		var event model.Event
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&event).Error)
		assert.Equal(t, model.ChannelEmail, event.Channel)
		assert.Equal(t, model.EventStatusSent, event.Status)
	})

	t.Run("mail failed", func(t *testing.T) {
		db := setupTestDB(t)
		m := &mockMailer{configured: true, sendErr: errors.New("smtp timeout")}
		engine := newTestEngine(db, m)
		createCustomer(t, db, "Abbas", &dob, nil, &tenantID, "abbas@example.com")

		// A send failure is soft: the run still commits
		count, err := engine.Run(context.Background(), tenantID, today)
		require.NoError(t, err)
		assert.Equal(t, 2, count) // birthday + bundling

		var msg model.MessageLog
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&msg).Error)
		assert.Equal(t, model.MessageStatusEmailFailed, msg.Status)

		var event model.Event
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&event).Error)
		assert.Equal(t, model.ChannelWhatsApp, event.Channel)
		assert.Equal(t, model.EventStatusFailed, event.Status)
	})

	t.Run("configured but customer has no email", func(t *testing.T) {
		db := setupTestDB(t)
		m := &mockMailer{configured: true}
		engine := newTestEngine(db, m)
		createCustomer(t, db, "Abbas", &dob, nil, &tenantID, "")

		_, err := engine.Run(context.Background(), tenantID, today)
		require.NoError(t, err)

		assert.Empty(t, m.sent)

		var msg model.MessageLog
		require.NoError(t, db.Where("event_type = ?", model.EventBirthdayWishes).First(&msg).Error)
		assert.Equal(t, model.MessageStatusSent, msg.Status)
	})
}

func TestEveryFiringProducesMatchingPair(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})
	tenantID := uint(1)
	dob := date(1995, time.May, 15)
	purchase := date(2023, time.January, 1)
	customer := createCustomer(t, db, "Abbas", &dob, &purchase, &tenantID, "")

	// On the birthday, long after purchase: all four rules fire
	count, err := engine.Run(context.Background(), tenantID, date(2030, time.May, 15))
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var logs []model.MessageLog
	require.NoError(t, db.Find(&logs).Error)
	var events []model.Event
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, logs, 4)
	require.Len(t, events, 4)

	logTypes := map[string]uint{}
	for _, l := range logs {
		logTypes[l.EventType] = l.CustomerID
	}
	for _, e := range events {
		require.NotNil(t, e.CustomerID)
		assert.Equal(t, customer.ID, *e.CustomerID)
		customerID, ok := logTypes[e.EventType]
		assert.True(t, ok, "event %s has no matching message log", e.EventType)
		assert.Equal(t, customerID, *e.CustomerID)
		require.NotNil(t, e.TenantID)
		assert.Equal(t, tenantID, *e.TenantID)
	}
}

func TestRunTwiceDoublesEveryCount(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})
	tenantID := uint(1)
	purchase := date(2023, time.January, 1)
	createCustomer(t, db, "Abbas", nil, &purchase, &tenantID, "")

	today := date(2030, time.May, 20)

	first, err := engine.Run(context.Background(), tenantID, today)
	require.NoError(t, err)
	assert.Equal(t, 3, first) // battery + warranty + bundling

	// There is no dedup guard: the second run re-fires everything
	second, err := engine.Run(context.Background(), tenantID, today)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var logs int64
	require.NoError(t, db.Model(&model.MessageLog{}).Count(&logs).Error)
	assert.Equal(t, int64(2*first), logs)

	var events int64
	require.NoError(t, db.Model(&model.Event{}).Count(&events).Error)
	assert.Equal(t, int64(2*first), events)
}

func TestTenantScoping(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})

	tenantA := uint(1)
	tenantB := uint(2)
	createCustomer(t, db, "Mine", nil, nil, &tenantA, "")
	createCustomer(t, db, "Theirs", nil, nil, &tenantB, "")
	createCustomer(t, db, "Legacy", nil, nil, nil, "")

	// Legacy rows with no tenant link are evaluated alongside the
	// tenant's own customers
	count, err := engine.Run(context.Background(), tenantA, date(2030, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var logs []model.MessageLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 2)
}

func TestOverlappingRunRejected(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})
	tenantID := uint(1)
	createCustomer(t, db, "Abbas", nil, nil, &tenantID, "")

	engine.mu.Lock()
	_, err := engine.Run(context.Background(), tenantID, date(2030, time.March, 3))
	engine.mu.Unlock()
	assert.ErrorIs(t, err, ErrRunInProgress)

	// After the lock is released a run goes through
	count, err := engine.Run(context.Background(), tenantID, date(2030, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMissingDatesSkipSilently(t *testing.T) {
	db := setupTestDB(t)
	engine := newTestEngine(db, &mockMailer{})
	tenantID := uint(1)
	createCustomer(t, db, "NoDates", nil, nil, &tenantID, "")

	count, err := engine.Run(context.Background(), tenantID, date(2030, time.May, 15))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	logs, _ := countByType(t, db, model.EventBundlingOffers)
	assert.Equal(t, int64(1), logs)
}
