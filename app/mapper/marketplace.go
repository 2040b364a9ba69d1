package mapper

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-marketplace/app/dto"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
	"github.com/vibast-solutions/ms-go-marketplace/app/service"
	"github.com/vibast-solutions/ms-go-marketplace/app/wallet"
)

func ServiceToResponse(item *entity.Service) dto.ServiceResponse {
	customFields := make([]dto.CustomFieldResponse, 0, len(item.CustomFields))
	for _, field := range item.CustomFields {
		customFields = append(customFields, dto.CustomFieldResponse{
			Name:     field.Name,
			Type:     field.Type,
			Required: field.Required,
		})
	}

	return dto.ServiceResponse{
		ID:               item.ID,
		Name:             item.Name,
		Description:      item.Description,
		Category:         item.Category,
		PublisherAddress: item.PublisherAddress,
		Features:         stringsOrEmpty(item.Features),
		WebhookURL:       item.WebhookURL,
		WebhookEvents:    stringsOrEmpty(item.WebhookEvents),
		CustomFields:     customFields,
		MonthlyPrice:     priceFloat(item.MonthlyPrice),
		QuarterlyPrice:   priceFloat(item.QuarterlyPrice),
		YearlyPrice:      priceFloat(item.YearlyPrice),
		DefaultPlan:      string(item.DefaultPlan()),
		AutoRenewal:      item.AutoRenewal,
		SubscribersCount: item.SubscribersCount,
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ServicesToResponse(items []*entity.Service) []dto.ServiceResponse {
	result := make([]dto.ServiceResponse, 0, len(items))
	for _, item := range items {
		result = append(result, ServiceToResponse(item))
	}
	return result
}

func SubscriptionToResponse(item *entity.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:                item.ID,
		ServiceID:         item.ServiceID,
		SubscriberAddress: item.SubscriberAddress,
		Plan:              string(item.Plan),
		Price:             item.Price.InexactFloat64(),
		AutoRenewal:       item.AutoRenewal,
		Status:            item.Status,
		WebhookData:       item.WebhookData,
		TransactionHash:   derefString(item.TransactionHash),
		StartDate:         item.StartDate.UTC().Format(time.RFC3339),
		EndDate:           item.EndDate.UTC().Format(time.RFC3339),
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func SubscriptionsToResponse(items []*entity.Subscription) []dto.SubscriptionResponse {
	result := make([]dto.SubscriptionResponse, 0, len(items))
	for _, item := range items {
		result = append(result, SubscriptionToResponse(item))
	}
	return result
}

func SubscriptionsWithServicesToResponse(items []*service.SubscriptionWithService) []dto.SubscriptionWithServiceResponse {
	result := make([]dto.SubscriptionWithServiceResponse, 0, len(items))
	for _, item := range items {
		entry := dto.SubscriptionWithServiceResponse{
			Subscription: SubscriptionToResponse(item.Subscription),
		}
		if item.Service != nil {
			svc := ServiceToResponse(item.Service)
			entry.Service = &svc
		}
		result = append(result, entry)
	}
	return result
}

func PublisherOverviewsToResponse(items []*service.PublisherServiceOverview) []dto.PublisherServiceOverviewResponse {
	result := make([]dto.PublisherServiceOverviewResponse, 0, len(items))
	for _, item := range items {
		result = append(result, dto.PublisherServiceOverviewResponse{
			Service:       ServiceToResponse(item.Service),
			Subscriptions: SubscriptionsToResponse(item.Subscriptions),
		})
	}
	return result
}

func WalletProvidersToResponse(providers []wallet.Provider) []dto.WalletProviderResponse {
	result := make([]dto.WalletProviderResponse, 0, len(providers))
	for _, p := range providers {
		result = append(result, dto.WalletProviderResponse{
			Name:                p.Name(),
			SupportsConnect:     p.SupportsConnect(),
			SupportsSignAndSend: p.SupportsSignAndSend(),
		})
	}
	return result
}

func priceFloat(v *decimal.Decimal) *float64 {
	if v == nil {
		return nil
	}
	f := v.InexactFloat64()
	return &f
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func stringsOrEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
