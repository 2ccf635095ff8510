// Package rules implements the date-driven marketing and maintenance
// rules. Each run walks every customer of a tenant once, fires the
// rules that are due, and appends one MessageLog plus one Event row per
// firing, all committed in a single transaction.
package rules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Abbaskay/watch-sense/internal/mailer"
	"github.com/Abbaskay/watch-sense/internal/model"
	"github.com/Abbaskay/watch-sense/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrRunInProgress is returned when a run is requested while another
// run is still evaluating. Without this guard two overlapping runs
// would both observe the same pre-state and double-fire every rule.
var ErrRunInProgress = errors.New("rule evaluation already in progress")

const (
	batteryReminderMonths = 18
	warrantyOfferMonths   = 11
)

// Rule describes one eligibility rule for the operator-facing catalog.
type Rule struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog returns the fixed set of rules in evaluation order.
func Catalog() []Rule {
	return []Rule{
		{Name: model.EventBatteryReplacement, Description: "Battery replacement reminder (18 months after purchase)"},
		{Name: model.EventBirthdayWishes, Description: "Birthday wishes"},
		{Name: model.EventExtendedWarranty, Description: "Extended warranty upsell"},
		{Name: model.EventBundlingOffers, Description: "Bundling offers"},
	}
}

// Engine evaluates the rule set against all customers of a tenant.
//
// Runs are not idempotent: there is no per-(customer, rule, period)
// dedup key, so re-running on the same day fires every due rule again.
// This matches the demo behavior the system models.
type Engine struct {
	db     *gorm.DB
	mailer mailer.Mailer
	log    *zap.Logger

	// mu serializes runs within this process.
	mu  sync.Mutex
	now func() time.Time
}

// NewEngine creates an Engine. The mailer may be unconfigured; birthday
// mail is then only recorded as a mock send.
func NewEngine(db *gorm.DB, m mailer.Mailer, log *zap.Logger) *Engine {
	return &Engine{
		db:     db,
		mailer: m,
		log:    log,
		now:    time.Now,
	}
}

// Run evaluates every rule for every customer of the tenant against
// the given evaluation date and returns the number of messages logged.
// Customers without a tenant link (legacy rows) are included.
//
// All inserted rows commit atomically at the end of the run; any error
// other than a mail-send failure rolls the whole run back.
func (e *Engine) Run(ctx context.Context, tenantID uint, today time.Time) (int, error) {
	if !e.mu.TryLock() {
		return 0, ErrRunInProgress
	}
	defer e.mu.Unlock()

	prometheus.RuleRunCounter.Inc()
	start := time.Now()
	defer func() {
		prometheus.RuleRunDuration.Observe(time.Since(start).Seconds())
	}()

	var customers []model.Customer
	if err := e.db.WithContext(ctx).
		Where("tenant_id = ? OR tenant_id IS NULL", tenantID).
		Order("id").
		Find(&customers).Error; err != nil {
		return 0, fmt.Errorf("failed to load customers: %w", err)
	}

	logged := 0
	firedByType := map[string]int{}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range customers {
			fired, err := e.evaluateCustomer(ctx, tx, tenantID, &customers[i], today)
			if err != nil {
				return err
			}
			for _, eventType := range fired {
				firedByType[eventType]++
				logged++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Counters only move on commit so a rolled-back run leaves no trace.
	for eventType, n := range firedByType {
		for i := 0; i < n; i++ {
			prometheus.RecordMessageLogged(eventType)
		}
	}

	e.log.Info("Rule evaluation completed",
		zap.Uint("tenant_id", tenantID),
		zap.Time("evaluation_date", today),
		zap.Int("customers", len(customers)),
		zap.Int("messages_logged", logged))

	return logged, nil
}

// evaluateCustomer applies the four rules in fixed order and returns
// the event types that fired.
func (e *Engine) evaluateCustomer(ctx context.Context, tx *gorm.DB, tenantID uint, customer *model.Customer, today time.Time) ([]string, error) {
	var fired []string

	// Rule: battery replacement reminder
	if customer.PurchaseDate != nil {
		due := AddMonths(*customer.PurchaseDate, batteryReminderMonths)
		if onOrAfter(today, due) {
			text := fmt.Sprintf("Hi %s, it's been 18 months since your %s purchase. Time for a battery check!",
				customer.Name, derefString(customer.Model))
			if err := e.insertPair(tx, tenantID, customer.ID, model.EventBatteryReplacement, text,
				model.MessageStatusSent, model.ChannelWhatsApp, model.EventStatusSent); err != nil {
				return nil, err
			}
			fired = append(fired, model.EventBatteryReplacement)
		}
	}

	// Rule: birthday wishes. Exact month and day match only, so Feb 29
	// birthdays never fire in non-leap years.
	if customer.DOB != nil && customer.DOB.Month() == today.Month() && customer.DOB.Day() == today.Day() {
		text := fmt.Sprintf("Happy Birthday, %s! Wishing you a wonderful year ahead. – Your Watch Retailer", customer.Name)

		status := model.MessageStatusSent
		if customer.Email != nil && *customer.Email != "" && e.mailer != nil && e.mailer.Configured() {
			if err := e.mailer.Send(ctx, *customer.Email, "Happy Birthday!", text); err != nil {
				status = model.MessageStatusEmailFailed
				prometheus.RecordMailSend("failed")
				e.log.Warn("Birthday mail send failed",
					zap.Uint("customer_id", customer.ID),
					zap.Error(err))
			} else {
				status = model.MessageStatusEmailSent
				prometheus.RecordMailSend("sent")
			}
		}

		channel := model.ChannelWhatsApp
		if status == model.MessageStatusEmailSent {
			channel = model.ChannelEmail
		}
		eventStatus := model.EventStatusSent
		if status == model.MessageStatusEmailFailed {
			eventStatus = model.EventStatusFailed
		}

		if err := e.insertPair(tx, tenantID, customer.ID, model.EventBirthdayWishes, text,
			status, channel, eventStatus); err != nil {
			return nil, err
		}
		fired = append(fired, model.EventBirthdayWishes)
	}

	// Rule: extended warranty upsell
	if customer.PurchaseDate != nil {
		due := AddMonths(*customer.PurchaseDate, warrantyOfferMonths)
		if onOrAfter(today, due) {
			text := fmt.Sprintf("Hi %s, extend your warranty for %s before it expires!",
				customer.Name, derefString(customer.Model))
			if err := e.insertPair(tx, tenantID, customer.ID, model.EventExtendedWarranty, text,
				model.MessageStatusSent, model.ChannelWhatsApp, model.EventStatusSent); err != nil {
				return nil, err
			}
			fired = append(fired, model.EventExtendedWarranty)
		}
	}

	// Rule: bundling offers, always due
	text := fmt.Sprintf("Exclusive offer for you, %s: Save on straps and accessories when you visit us this week!",
		customer.Name)
	if err := e.insertPair(tx, tenantID, customer.ID, model.EventBundlingOffers, text,
		model.MessageStatusSent, model.ChannelWhatsApp, model.EventStatusSent); err != nil {
		return nil, err
	}
	fired = append(fired, model.EventBundlingOffers)

	return fired, nil
}

// insertPair writes the MessageLog row and its matching Event row.
func (e *Engine) insertPair(tx *gorm.DB, tenantID uint, customerID uint, eventType, message, messageStatus, channel, eventStatus string) error {
	now := e.now().UTC()

	if err := tx.Create(&model.MessageLog{
		CustomerID: customerID,
		EventType:  eventType,
		Message:    message,
		SentAt:     now,
		Status:     messageStatus,
	}).Error; err != nil {
		return fmt.Errorf("failed to insert message log: %w", err)
	}

	tid := tenantID
	cid := customerID
	if err := tx.Create(&model.Event{
		TenantID:   &tid,
		CustomerID: &cid,
		EventType:  eventType,
		Channel:    channel,
		SentAt:     now,
		Status:     eventStatus,
	}).Error; err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
