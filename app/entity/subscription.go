package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusPaid      = "paid"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

type Subscription struct {
	ID                string
	ServiceID         string
	SubscriberAddress string
	Plan              Plan
	Price             decimal.Decimal
	AutoRenewal       bool
	Status            string
	WebhookData       map[string]string
	TransactionHash   *string
	StartDate         time.Time
	EndDate           time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
