package repository

import (
	"context"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

type DonationEventRepository struct {
	db DBTX
}

func NewDonationEventRepository(db DBTX) *DonationEventRepository {
	return &DonationEventRepository{db: db}
}

func (r *DonationEventRepository) Create(ctx context.Context, event *entity.DonationEvent) error {
	query := `
		INSERT INTO donation_events (
			donation_id, event_type, old_status, new_status, payload_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.DonationID,
		event.EventType,
		nullableStringValue(event.OldStatus),
		event.NewStatus,
		nullableStringValue(event.PayloadJSON),
		event.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = uint64(id)

	return nil
}
