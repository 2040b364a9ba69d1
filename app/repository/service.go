package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
)

var ErrServiceNotFound = errors.New("service not found")

type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `
	id, name, description, category, publisher_address,
	features, webhook_url, webhook_events, custom_fields,
	monthly_price, quarterly_price, yearly_price,
	auto_renewal, subscribers_count, created_at, updated_at
`

func (r *ServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now
	service.SubscribersCount = 0

	features, err := jsonValue(service.Features)
	if err != nil {
		return err
	}
	webhookEvents, err := jsonValue(service.WebhookEvents)
	if err != nil {
		return err
	}
	customFields, err := jsonValue(service.CustomFields)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO services (
			id, name, description, category, publisher_address,
			features, webhook_url, webhook_events, custom_fields,
			monthly_price, quarterly_price, yearly_price,
			auto_renewal, subscribers_count, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		service.ID,
		service.Name,
		service.Description,
		service.Category,
		service.PublisherAddress,
		features,
		nullableStringValue(&service.WebhookURL),
		webhookEvents,
		customFields,
		nullableDecimalValue(service.MonthlyPrice),
		nullableDecimalValue(service.QuarterlyPrice),
		nullableDecimalValue(service.YearlyPrice),
		service.AutoRenewal,
		service.SubscribersCount,
		service.CreatedAt,
		service.UpdatedAt,
	)
	return err
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`

	item := &entity.Service{}
	if err := scanService(r.db.QueryRowContext(ctx, query, id), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY created_at DESC`
	return r.listByQuery(ctx, query)
}

func (r *ServiceRepository) ListByPublisher(ctx context.Context, publisherAddress string) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE publisher_address = ? ORDER BY created_at DESC`
	return r.listByQuery(ctx, query, publisherAddress)
}

// IncrementSubscriberCount bumps the counter in the store so concurrent
// activations cannot lose updates to a read-modify-write cycle.
func (r *ServiceRepository) IncrementSubscriberCount(ctx context.Context, id string) error {
	query := `
		UPDATE services
		SET subscribers_count = subscribers_count + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

func (r *ServiceRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*entity.Service, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Service, 0)
	for rows.Next() {
		item := &entity.Service{}
		if err := scanService(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func scanService(scanner rowScanner, item *entity.Service) error {
	var webhookURL sql.NullString
	var features, webhookEvents, customFields sql.NullString
	var monthlyPrice, quarterlyPrice, yearlyPrice decimal.NullDecimal

	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.PublisherAddress,
		&features,
		&webhookURL,
		&webhookEvents,
		&customFields,
		&monthlyPrice,
		&quarterlyPrice,
		&yearlyPrice,
		&item.AutoRenewal,
		&item.SubscribersCount,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if webhookURL.Valid {
		item.WebhookURL = webhookURL.String
	}
	if err := unmarshalJSONColumn(features, &item.Features); err != nil {
		return err
	}
	if err := unmarshalJSONColumn(webhookEvents, &item.WebhookEvents); err != nil {
		return err
	}
	if err := unmarshalJSONColumn(customFields, &item.CustomFields); err != nil {
		return err
	}
	item.MonthlyPrice = decimalPointer(monthlyPrice)
	item.QuarterlyPrice = decimalPointer(quarterlyPrice)
	item.YearlyPrice = decimalPointer(yearlyPrice)

	return nil
}

func nullableDecimalValue(v *decimal.Decimal) interface{} {
	if v == nil {
		return nil
	}
	return v.String()
}

func decimalPointer(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}
