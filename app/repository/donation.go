package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

var (
	ErrDonationNotFound      = errors.New("donation not found")
	ErrDonationAlreadyExists = errors.New("donation already exists")
)

const donationColumns = `id, reference, provider_reference, amount_minor, currency, status,
	donor_first_name, donor_last_name, donor_email, donor_phone, frequency,
	payment_url, metadata_json, paid_at, failure_reason, created_at, updated_at`

type DonationFilter struct {
	Status    string
	Email     string
	Frequency string
	Limit     int32
	Offset    int32
}

type DonationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	metadataJSON, err := serializeMetadata(donation.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO donations (
			reference, provider_reference, amount_minor, currency, status,
			donor_first_name, donor_last_name, donor_email, donor_phone, frequency,
			payment_url, metadata_json, paid_at, failure_reason, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		donation.Reference,
		nullableStringValue(donation.ProviderReference),
		donation.AmountMinor,
		donation.Currency,
		donation.Status,
		donation.DonorFirstName,
		donation.DonorLastName,
		donation.DonorEmail,
		nullableStringValue(donation.DonorPhone),
		donation.Frequency,
		nullableStringValue(donation.PaymentURL),
		metadataJSON,
		nullableTimeValue(donation.PaidAt),
		nullableStringValue(donation.FailureReason),
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDonationAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	donation.ID = uint64(id)
	return nil
}

func (r *DonationRepository) Update(ctx context.Context, donation *entity.Donation) error {
	metadataJSON, err := serializeMetadata(donation.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE donations SET
			provider_reference = ?,
			amount_minor = ?,
			currency = ?,
			status = ?,
			donor_first_name = ?,
			donor_last_name = ?,
			donor_email = ?,
			donor_phone = ?,
			frequency = ?,
			payment_url = ?,
			metadata_json = ?,
			paid_at = ?,
			failure_reason = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(donation.ProviderReference),
		donation.AmountMinor,
		donation.Currency,
		donation.Status,
		donation.DonorFirstName,
		donation.DonorLastName,
		donation.DonorEmail,
		nullableStringValue(donation.DonorPhone),
		donation.Frequency,
		nullableStringValue(donation.PaymentURL),
		metadataJSON,
		nullableTimeValue(donation.PaidAt),
		nullableStringValue(donation.FailureReason),
		donation.UpdatedAt,
		donation.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDonationNotFound
	}

	return nil
}

func (r *DonationRepository) FindByReference(ctx context.Context, reference string) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE reference = ? LIMIT 1`

	donation := &entity.Donation{}
	if err := scanDonation(r.db.QueryRowContext(ctx, query, reference), donation); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return donation, nil
}

func (r *DonationRepository) List(ctx context.Context, filter DonationFilter) ([]*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)

	if strings.TrimSpace(filter.Status) != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if strings.TrimSpace(filter.Email) != "" {
		conditions = append(conditions, "donor_email = ?")
		args = append(args, filter.Email)
	}
	if strings.TrimSpace(filter.Frequency) != "" {
		conditions = append(conditions, "frequency = ?")
		args = append(args, filter.Frequency)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDonations(rows)
}

func (r *DonationRepository) ListStalePending(ctx context.Context, before time.Time, limit int32) ([]*entity.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE status = ?
		  AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, entity.DonationStatusPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDonations(rows)
}

func (r *DonationRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE status = ?
		  AND created_at <= ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, entity.DonationStatusPending, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDonations(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDonation(scan rowScanner, donation *entity.Donation) error {
	var providerReference sql.NullString
	var donorPhone sql.NullString
	var paymentURL sql.NullString
	var metadataJSON string
	var paidAt sql.NullTime
	var failureReason sql.NullString

	err := scan.Scan(
		&donation.ID,
		&donation.Reference,
		&providerReference,
		&donation.AmountMinor,
		&donation.Currency,
		&donation.Status,
		&donation.DonorFirstName,
		&donation.DonorLastName,
		&donation.DonorEmail,
		&donorPhone,
		&donation.Frequency,
		&paymentURL,
		&metadataJSON,
		&paidAt,
		&failureReason,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	donation.ProviderReference = stringPtrFromNull(providerReference)
	donation.DonorPhone = stringPtrFromNull(donorPhone)
	donation.PaymentURL = stringPtrFromNull(paymentURL)
	donation.PaidAt = timePtrFromNull(paidAt)
	donation.FailureReason = stringPtrFromNull(failureReason)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return err
	}
	donation.Metadata = metadata

	return nil
}

func collectDonations(rows *sql.Rows) ([]*entity.Donation, error) {
	donations := make([]*entity.Donation, 0)
	for rows.Next() {
		item := &entity.Donation{}
		if err := scanDonation(rows, item); err != nil {
			return nil, err
		}
		donations = append(donations, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return donations, nil
}
