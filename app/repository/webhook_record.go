package repository

import (
	"context"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

type WebhookRecordRepository struct {
	db DBTX
}

func NewWebhookRecordRepository(db DBTX) *WebhookRecordRepository {
	return &WebhookRecordRepository{db: db}
}

func (r *WebhookRecordRepository) Create(ctx context.Context, record *entity.WebhookRecord) error {
	query := `
		INSERT INTO webhook_records (
			donation_id, event_type, reference, signature, payload_json, status, error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(record.DonationID),
		record.EventType,
		record.Reference,
		record.Signature,
		record.PayloadJSON,
		record.Status,
		nullableStringValue(record.Error),
		record.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = uint64(id)

	return nil
}
