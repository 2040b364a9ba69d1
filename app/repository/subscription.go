package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrDuplicateActiveSubscription reports a violation of the
	// one-active-subscription-per-(service, subscriber) index.
	ErrDuplicateActiveSubscription = errors.New("subscriber already has an active subscription for this service")
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `
	id, service_id, subscriber_address, plan, price, auto_renewal,
	status, webhook_data, transaction_hash, start_date, end_date,
	created_at, updated_at
`

// Create persists a new ledger row. Status is forced to pending regardless of
// what the caller set; only the lifecycle engine advances it from there.
func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	if subscription.ID == "" {
		subscription.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subscription.Status = entity.SubscriptionStatusPending
	subscription.CreatedAt = now
	subscription.UpdatedAt = now

	webhookData, err := jsonValue(subscription.WebhookData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO subscriptions (
			id, service_id, subscriber_address, plan, price, auto_renewal,
			status, webhook_data, transaction_hash, start_date, end_date,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		subscription.ID,
		subscription.ServiceID,
		subscription.SubscriberAddress,
		string(subscription.Plan),
		subscription.Price.String(),
		subscription.AutoRenewal,
		subscription.Status,
		webhookData,
		nullableStringValue(subscription.TransactionHash),
		subscription.StartDate,
		subscription.EndDate,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	return err
}

// UpdateStatus writes the subscription's current status and transaction hash.
// Moving to active claims the active_key slot; a duplicate-entry error from
// the uniq_active_subscription index maps to ErrDuplicateActiveSubscription.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, subscription *entity.Subscription) error {
	subscription.UpdatedAt = time.Now().UTC()

	var activeKey interface{}
	if subscription.Status == entity.SubscriptionStatusActive {
		activeKey = 1
	}

	query := `
		UPDATE subscriptions
		SET status = ?, transaction_hash = ?, active_key = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.Status,
		nullableStringValue(subscription.TransactionHash),
		activeKey,
		subscription.UpdatedAt,
		subscription.ID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateActiveSubscription
		}
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*entity.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`

	item := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, id), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionRepository) FindActiveByServiceAndSubscriber(ctx context.Context, serviceID, subscriberAddress string) (*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE service_id = ?
		  AND subscriber_address = ?
		  AND status = ?
		LIMIT 1
	`

	item := &entity.Subscription{}
	err := scanSubscription(
		r.db.QueryRowContext(ctx, query, serviceID, subscriberAddress, entity.SubscriptionStatusActive),
		item,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberAddress string) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_address = ?
		ORDER BY created_at DESC
	`
	return r.listByQuery(ctx, query, subscriberAddress)
}

func (r *SubscriptionRepository) ListByService(ctx context.Context, serviceID string) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE service_id = ?
		ORDER BY created_at DESC
	`
	return r.listByQuery(ctx, query, serviceID)
}

// ListStuck returns subscriptions sitting in a non-terminal, non-active state
// since before the cutoff. The reconcile job re-drives them.
func (r *SubscriptionRepository) ListStuck(ctx context.Context, cutoff time.Time) ([]*entity.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status IN (?, ?)
		  AND updated_at < ?
		ORDER BY created_at ASC
	`
	return r.listByQuery(ctx, query,
		entity.SubscriptionStatusPending,
		entity.SubscriptionStatusPaid,
		cutoff,
	)
}

func (r *SubscriptionRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Subscription, 0)
	for rows.Next() {
		item := &entity.Subscription{}
		if err := scanSubscription(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanSubscription(scanner rowScanner, item *entity.Subscription) error {
	var plan string
	var webhookData sql.NullString
	var transactionHash sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.ServiceID,
		&item.SubscriberAddress,
		&plan,
		&item.Price,
		&item.AutoRenewal,
		&item.Status,
		&webhookData,
		&transactionHash,
		&item.StartDate,
		&item.EndDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	item.Plan = entity.Plan(plan)
	if err := unmarshalJSONColumn(webhookData, &item.WebhookData); err != nil {
		return err
	}
	if transactionHash.Valid {
		item.TransactionHash = &transactionHash.String
	} else {
		item.TransactionHash = nil
	}

	return nil
}
