package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
	"github.com/vibast-solutions/ms-go-marketplace/app/factory"
	"github.com/vibast-solutions/ms-go-marketplace/app/payment"
	"github.com/vibast-solutions/ms-go-marketplace/app/repository"
	"github.com/vibast-solutions/ms-go-marketplace/app/webhook"
	"github.com/vibast-solutions/ms-go-marketplace/config"
)

type serviceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context) ([]*entity.Service, error)
	ListByPublisher(ctx context.Context, publisherAddress string) ([]*entity.Service, error)
	IncrementSubscriberCount(ctx context.Context, id string) error
}

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	UpdateStatus(ctx context.Context, subscription *entity.Subscription) error
	FindByID(ctx context.Context, id string) (*entity.Subscription, error)
	FindActiveByServiceAndSubscriber(ctx context.Context, serviceID, subscriberAddress string) (*entity.Subscription, error)
	ListBySubscriber(ctx context.Context, subscriberAddress string) ([]*entity.Subscription, error)
	ListByService(ctx context.Context, serviceID string) ([]*entity.Subscription, error)
	ListStuck(ctx context.Context, cutoff time.Time) ([]*entity.Subscription, error)
}

type webhookDispatcher interface {
	Notify(ctx context.Context, url string, envelope webhook.Envelope) error
}

type SubscribeInput struct {
	ServiceID         string
	SubscriberAddress string
	Plan              entity.Plan
	AutoRenewal       bool
	WebhookData       map[string]string
}

// SubscriptionWithService pairs a ledger entry with its catalog record for
// subscriber-facing listings. Service is nil when the catalog row is gone.
type SubscriptionWithService struct {
	Subscription *entity.Subscription
	Service      *entity.Service
}

// SubscribeResult carries the activated subscription together with the
// service it was taken on, with its optimistically bumped subscriber count.
type SubscribeResult struct {
	Subscription *entity.Subscription
	Service      *entity.Service
}

// SubscriptionService drives a subscription from creation to active access:
// validate, persist pending, settle payment, mark paid, notify the publisher
// webhook best-effort, mark active, bump the subscriber count.
type SubscriptionService struct {
	serviceRepo      serviceRepository
	subscriptionRepo subscriptionRepository
	settlement       payment.Settlement
	dispatcher       webhookDispatcher
	cfg              config.SubscriptionConfig
	logger           logrus.FieldLogger
}

func NewSubscriptionService(
	serviceRepo serviceRepository,
	subscriptionRepo subscriptionRepository,
	settlement payment.Settlement,
	dispatcher webhookDispatcher,
	cfg config.SubscriptionConfig,
) *SubscriptionService {
	return &SubscriptionService{
		serviceRepo:      serviceRepo,
		subscriptionRepo: subscriptionRepo,
		settlement:       settlement,
		dispatcher:       dispatcher,
		cfg:              cfg,
		logger:           factory.NewModuleLogger("subscription-lifecycle"),
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeResult, error) {
	if strings.TrimSpace(input.SubscriberAddress) == "" {
		return nil, ErrUnauthenticated
	}
	if !input.Plan.Valid() {
		return nil, ErrInvalidPlan
	}

	item, err := s.serviceRepo.FindByID(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrServiceNotFound
	}

	price := item.PriceFor(input.Plan)
	if price == nil {
		return nil, ErrInvalidPlan
	}

	if err := validateRequiredFields(item.CustomFields, input.WebhookData); err != nil {
		return nil, err
	}

	existing, err := s.subscriptionRepo.FindActiveByServiceAndSubscriber(ctx, item.ID, input.SubscriberAddress)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	start := time.Now().UTC()
	subscription := &entity.Subscription{
		ServiceID:         item.ID,
		SubscriberAddress: strings.TrimSpace(input.SubscriberAddress),
		Plan:              input.Plan,
		Price:             *price,
		AutoRenewal:       input.AutoRenewal,
		Status:            entity.SubscriptionStatusPending,
		WebhookData:       input.WebhookData,
		StartDate:         start,
		EndDate:           input.Plan.PeriodEnd(start),
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		s.logger.WithError(err).WithField("service_id", item.ID).Error("Persisting pending subscription failed")
		return nil, fmt.Errorf("%w: could not persist subscription", ErrSubscriptionFailed)
	}

	if err := s.advance(ctx, subscription, item); err != nil {
		return nil, err
	}

	return &SubscribeResult{Subscription: subscription, Service: item}, nil
}

// advance drives a subscription through the remaining lifecycle steps implied
// by its current status. Resumable: the reconcile job calls it on records
// stuck in pending or paid.
func (s *SubscriptionService) advance(ctx context.Context, subscription *entity.Subscription, item *entity.Service) error {
	log := s.logger.WithFields(logrus.Fields{
		"subscription_id": subscription.ID,
		"service_id":      item.ID,
	})

	if subscription.Status == entity.SubscriptionStatusPending {
		receipt, err := s.settlement.Settle(ctx, subscription)
		if err != nil {
			log.WithError(err).Error("Payment settlement failed")
			return fmt.Errorf("%w: payment settlement failed", ErrSubscriptionFailed)
		}

		subscription.Status = entity.SubscriptionStatusPaid
		subscription.TransactionHash = &receipt.TransactionHash
		if err := s.subscriptionRepo.UpdateStatus(ctx, subscription); err != nil {
			// Payment notionally went out but the ledger still says
			// pending; the reconcile job picks this record up later.
			log.WithError(err).Error("Marking subscription paid failed")
			subscription.Status = entity.SubscriptionStatusPending
			subscription.TransactionHash = nil
			return fmt.Errorf("%w: could not record payment", ErrSubscriptionFailed)
		}
	}

	if item.WebhookURL != "" {
		envelope := webhook.Envelope{
			Event:             entity.WebhookEventSubscriptionActivated,
			SubscriptionID:    subscription.ID,
			ServiceID:         item.ID,
			SubscriberAddress: subscription.SubscriberAddress,
			Plan:              string(subscription.Plan),
			Price:             subscription.Price.InexactFloat64(),
			WebhookData:       subscription.WebhookData,
			TransactionHash:   derefString(subscription.TransactionHash),
			Timestamp:         time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.dispatcher.Notify(ctx, item.WebhookURL, envelope); err != nil {
			// Best-effort only: delivery failures never block activation.
			log.WithError(err).Warn("Webhook notification failed")
		}
	}

	previousStatus := subscription.Status
	subscription.Status = entity.SubscriptionStatusActive
	if err := s.subscriptionRepo.UpdateStatus(ctx, subscription); err != nil {
		subscription.Status = previousStatus
		if errors.Is(err, repository.ErrDuplicateActiveSubscription) {
			log.WithError(err).Warn("Lost activation race, record stays paid")
			return ErrAlreadySubscribed
		}
		log.WithError(err).Error("Activating subscription failed")
		return fmt.Errorf("%w: could not activate subscription", ErrSubscriptionFailed)
	}

	if err := s.serviceRepo.IncrementSubscriberCount(ctx, item.ID); err != nil {
		// Subscriber-facing success wins over publisher statistics.
		log.WithError(err).Warn("Incrementing subscriber count failed")
	}
	item.SubscribersCount++

	return nil
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	return subscription, nil
}

func (s *SubscriptionService) ListSubscriberSubscriptions(ctx context.Context, subscriberAddress string) ([]*SubscriptionWithService, error) {
	if strings.TrimSpace(subscriberAddress) == "" {
		return nil, ErrUnauthenticated
	}

	subscriptions, err := s.subscriptionRepo.ListBySubscriber(ctx, subscriberAddress)
	if err != nil {
		return nil, err
	}

	items := make([]*SubscriptionWithService, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		item, err := s.serviceRepo.FindByID(ctx, subscription.ServiceID)
		if err != nil {
			return nil, err
		}
		items = append(items, &SubscriptionWithService{
			Subscription: subscription,
			Service:      item,
		})
	}

	return items, nil
}

// RunReconcileBatch re-drives subscriptions stuck in pending or paid past the
// configured cutoff, resuming each from the step its status implies.
func (s *SubscriptionService) RunReconcileBatch(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.cfg.StuckAfter)
	stuck, err := s.subscriptionRepo.ListStuck(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, subscription := range stuck {
		log := s.logger.WithFields(logrus.Fields{
			"subscription_id": subscription.ID,
			"status":          subscription.Status,
		})

		item, err := s.serviceRepo.FindByID(ctx, subscription.ServiceID)
		if err != nil || item == nil {
			log.WithError(err).Warn("Skipping stuck subscription without service")
			continue
		}

		if err := s.advance(ctx, subscription, item); err != nil {
			log.WithError(err).Error("Reconcile failed")
			continue
		}
		log.Info("Stuck subscription reconciled")
	}

	return nil
}

func validateRequiredFields(fields []entity.CustomField, answers map[string]string) error {
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(answers[field.Name]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingRequiredField, field.Name)
		}
	}
	return nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
