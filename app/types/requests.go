package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

type CustomFieldDraft struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type PublishServiceRequest struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Category         string             `json:"category"`
	PublisherAddress string             `json:"publisher_address"`
	Features         []string           `json:"features"`
	WebhookURL       string             `json:"webhook_url"`
	CustomFields     []CustomFieldDraft `json:"custom_fields"`
	MonthlyPrice     *decimal.Decimal   `json:"monthly_price"`
	QuarterlyPrice   *decimal.Decimal   `json:"quarterly_price"`
	YearlyPrice      *decimal.Decimal   `json:"yearly_price"`
	AutoRenewal      bool               `json:"auto_renewal"`
}

func NewPublishServiceRequestFromContext(ctx echo.Context) (*PublishServiceRequest, error) {
	var body PublishServiceRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Description = strings.TrimSpace(body.Description)
	body.Category = strings.TrimSpace(body.Category)
	body.PublisherAddress = strings.TrimSpace(body.PublisherAddress)
	body.WebhookURL = strings.TrimSpace(body.WebhookURL)
	return &body, nil
}

func (r *PublishServiceRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	if r.PublisherAddress == "" {
		return errors.New("publisher_address is required")
	}
	if r.MonthlyPrice == nil && r.QuarterlyPrice == nil && r.YearlyPrice == nil {
		return errors.New("at least one plan price is required")
	}
	return nil
}

type GetServiceRequest struct {
	ID string
}

func NewGetServiceRequestFromContext(ctx echo.Context) (*GetServiceRequest, error) {
	return &GetServiceRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetServiceRequest) Validate() error {
	if r.ID == "" {
		return errors.New("invalid service id")
	}
	return nil
}

type ListPublisherServicesRequest struct {
	PublisherAddress string
}

func NewListPublisherServicesRequestFromContext(ctx echo.Context) (*ListPublisherServicesRequest, error) {
	return &ListPublisherServicesRequest{PublisherAddress: strings.TrimSpace(ctx.Param("address"))}, nil
}

func (r *ListPublisherServicesRequest) Validate() error {
	if r.PublisherAddress == "" {
		return errors.New("invalid publisher address")
	}
	return nil
}

type SubscribeRequest struct {
	ServiceID         string            `json:"service_id"`
	SubscriberAddress string            `json:"subscriber_address"`
	Plan              string            `json:"plan"`
	AutoRenewal       bool              `json:"auto_renewal"`
	WebhookData       map[string]string `json:"webhook_data"`
}

func NewSubscribeRequestFromContext(ctx echo.Context) (*SubscribeRequest, error) {
	var body SubscribeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ServiceID = strings.TrimSpace(body.ServiceID)
	body.SubscriberAddress = strings.TrimSpace(body.SubscriberAddress)
	body.Plan = strings.ToLower(strings.TrimSpace(body.Plan))
	return &body, nil
}

func (r *SubscribeRequest) Validate() error {
	if r.ServiceID == "" {
		return errors.New("service_id is required")
	}
	if r.SubscriberAddress == "" {
		return errors.New("subscriber_address is required")
	}
	if !entity.Plan(r.Plan).Valid() {
		return errors.New("plan must be one of monthly, quarterly, yearly")
	}
	return nil
}

type GetSubscriptionRequest struct {
	ID string
}

func NewGetSubscriptionRequestFromContext(ctx echo.Context) (*GetSubscriptionRequest, error) {
	return &GetSubscriptionRequest{ID: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetSubscriptionRequest) Validate() error {
	if r.ID == "" {
		return errors.New("invalid subscription id")
	}
	return nil
}

type ListSubscriptionsRequest struct {
	Subscriber string
}

func NewListSubscriptionsRequestFromContext(ctx echo.Context) (*ListSubscriptionsRequest, error) {
	return &ListSubscriptionsRequest{Subscriber: strings.TrimSpace(ctx.QueryParam("subscriber"))}, nil
}

func (r *ListSubscriptionsRequest) Validate() error {
	if r.Subscriber == "" {
		return errors.New("subscriber query parameter is required")
	}
	return nil
}
