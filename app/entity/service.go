package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WebhookEventSubscriptionActivated = "subscription_activated"
	WebhookEventSubscriptionRenewed   = "subscription_renewed"
	WebhookEventSubscriptionCancelled = "subscription_cancelled"
)

const (
	CustomFieldTypeText   = "text"
	CustomFieldTypeEmail  = "email"
	CustomFieldTypeNumber = "number"
	CustomFieldTypeURL    = "url"
)

var ServiceCategories = []string{
	"AI & ML",
	"Data & Analytics",
	"NFT",
	"DeFi",
	"Security",
	"Social",
}

// CustomField is a publisher-defined input collected from the subscriber at
// subscribe time and forwarded in the webhook payload.
type CustomField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type Service struct {
	ID               string
	Name             string
	Description      string
	Category         string
	PublisherAddress string
	Features         []string
	WebhookURL       string
	WebhookEvents    []string
	CustomFields     []CustomField
	MonthlyPrice     *decimal.Decimal
	QuarterlyPrice   *decimal.Decimal
	YearlyPrice      *decimal.Decimal
	AutoRenewal      bool
	SubscribersCount int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PriceFor returns the configured price for the plan, nil when the plan is
// not offered.
func (s *Service) PriceFor(plan Plan) *decimal.Decimal {
	switch plan {
	case PlanMonthly:
		return s.MonthlyPrice
	case PlanQuarterly:
		return s.QuarterlyPrice
	case PlanYearly:
		return s.YearlyPrice
	default:
		return nil
	}
}

// DefaultPlan mirrors the storefront's preselection: the longest offered
// billing period wins.
func (s *Service) DefaultPlan() Plan {
	switch {
	case s.YearlyPrice != nil:
		return PlanYearly
	case s.QuarterlyPrice != nil:
		return PlanQuarterly
	case s.MonthlyPrice != nil:
		return PlanMonthly
	default:
		return ""
	}
}

func IsServiceCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsCustomFieldType(fieldType string) bool {
	switch fieldType {
	case CustomFieldTypeText, CustomFieldTypeEmail, CustomFieldTypeNumber, CustomFieldTypeURL:
		return true
	default:
		return false
	}
}
