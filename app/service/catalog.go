package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

type PublishServiceInput struct {
	Name             string
	Description      string
	Category         string
	PublisherAddress string
	Features         []string
	WebhookURL       string
	CustomFields     []entity.CustomField
	MonthlyPrice     *decimal.Decimal
	QuarterlyPrice   *decimal.Decimal
	YearlyPrice      *decimal.Decimal
	AutoRenewal      bool
}

// PublisherServiceOverview is one dashboard row: a published service plus the
// ledger entries referencing it.
type PublisherServiceOverview struct {
	Service       *entity.Service
	Subscriptions []*entity.Subscription
}

type CatalogService struct {
	serviceRepo      serviceRepository
	subscriptionRepo subscriptionRepository
}

func NewCatalogService(serviceRepo serviceRepository, subscriptionRepo subscriptionRepository) *CatalogService {
	return &CatalogService{
		serviceRepo:      serviceRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *CatalogService) PublishService(ctx context.Context, input PublishServiceInput) (*entity.Service, error) {
	if strings.TrimSpace(input.PublisherAddress) == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !entity.IsServiceCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	if input.MonthlyPrice == nil && input.QuarterlyPrice == nil && input.YearlyPrice == nil {
		return nil, fmt.Errorf("%w: at least one plan price is required", ErrValidation)
	}
	for _, price := range []*decimal.Decimal{input.MonthlyPrice, input.QuarterlyPrice, input.YearlyPrice} {
		if price != nil && price.IsNegative() {
			return nil, fmt.Errorf("%w: plan prices must be non-negative", ErrValidation)
		}
	}

	customFields := make([]entity.CustomField, 0, len(input.CustomFields))
	for _, field := range input.CustomFields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if !entity.IsCustomFieldType(field.Type) {
			return nil, fmt.Errorf("%w: unknown custom field type %q", ErrValidation, field.Type)
		}
		customFields = append(customFields, entity.CustomField{
			Name:     name,
			Type:     field.Type,
			Required: field.Required,
		})
	}

	features := make([]string, 0, len(input.Features))
	for _, feature := range input.Features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	item := &entity.Service{
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		Category:         input.Category,
		PublisherAddress: strings.TrimSpace(input.PublisherAddress),
		Features:         features,
		WebhookURL:       strings.TrimSpace(input.WebhookURL),
		WebhookEvents: []string{
			entity.WebhookEventSubscriptionActivated,
			entity.WebhookEventSubscriptionRenewed,
			entity.WebhookEventSubscriptionCancelled,
		},
		CustomFields:   customFields,
		MonthlyPrice:   input.MonthlyPrice,
		QuarterlyPrice: input.QuarterlyPrice,
		YearlyPrice:    input.YearlyPrice,
		AutoRenewal:    input.AutoRenewal,
	}

	if err := s.serviceRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *CatalogService) GetService(ctx context.Context, id string) (*entity.Service, error) {
	item, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrServiceNotFound
	}
	return item, nil
}

func (s *CatalogService) ListServices(ctx context.Context) ([]*entity.Service, error) {
	return s.serviceRepo.List(ctx)
}

// ListPublisherServices returns the publisher's services with their
// subscription rollups for the dashboard view.
func (s *CatalogService) ListPublisherServices(ctx context.Context, publisherAddress string) ([]*PublisherServiceOverview, error) {
	if strings.TrimSpace(publisherAddress) == "" {
		return nil, ErrUnauthenticated
	}

	services, err := s.serviceRepo.ListByPublisher(ctx, publisherAddress)
	if err != nil {
		return nil, err
	}

	overviews := make([]*PublisherServiceOverview, 0, len(services))
	for _, item := range services {
		subscriptions, err := s.subscriptionRepo.ListByService(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, &PublisherServiceOverview{
			Service:       item,
			Subscriptions: subscriptions,
		})
	}

	return overviews, nil
}
