package dto

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CustomFieldResponse struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type ServiceResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Category         string                `json:"category"`
	PublisherAddress string                `json:"publisher_address"`
	Features         []string              `json:"features"`
	WebhookURL       string                `json:"webhook_url,omitempty"`
	WebhookEvents    []string              `json:"webhook_events"`
	CustomFields     []CustomFieldResponse `json:"custom_fields"`
	MonthlyPrice     *float64              `json:"monthly_price,omitempty"`
	QuarterlyPrice   *float64              `json:"quarterly_price,omitempty"`
	YearlyPrice      *float64              `json:"yearly_price,omitempty"`
	DefaultPlan      string                `json:"default_plan,omitempty"`
	AutoRenewal      bool                  `json:"auto_renewal"`
	SubscribersCount int64                 `json:"subscribers_count"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
}

type SubscriptionResponse struct {
	ID                string            `json:"id"`
	ServiceID         string            `json:"service_id"`
	SubscriberAddress string            `json:"subscriber_address"`
	Plan              string            `json:"plan"`
	Price             float64           `json:"price"`
	AutoRenewal       bool              `json:"auto_renewal"`
	Status            string            `json:"status"`
	WebhookData       map[string]string `json:"webhook_data,omitempty"`
	TransactionHash   string            `json:"transaction_hash,omitempty"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	CreatedAt         string            `json:"created_at"`
}

type ServiceEnvelopeResponse struct {
	Service ServiceResponse `json:"service"`
}

type ListServicesResponse struct {
	Services []ServiceResponse `json:"services"`
}

type PublisherServiceOverviewResponse struct {
	Service       ServiceResponse        `json:"service"`
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

type ListPublisherServicesResponse struct {
	Services []PublisherServiceOverviewResponse `json:"services"`
}

type SubscribeResponse struct {
	Message      string               `json:"message"`
	Subscription SubscriptionResponse `json:"subscription"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
}

type SubscriptionWithServiceResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Service      *ServiceResponse     `json:"service,omitempty"`
}

type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionWithServiceResponse `json:"subscriptions"`
}

type WalletProviderResponse struct {
	Name                string `json:"name"`
	SupportsConnect     bool   `json:"supports_connect"`
	SupportsSignAndSend bool   `json:"supports_sign_and_send"`
}

type ListWalletProvidersResponse struct {
	Providers []WalletProviderResponse `json:"providers"`
}
