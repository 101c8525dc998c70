package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

var ErrLoanApplicationNotFound = errors.New("loan application not found")

const loanColumns = `id, applicant_name, email, phone, amount_minor, currency,
	business_name, business_type, purpose, status, admin_notes, created_at, updated_at`

type LoanApplicationFilter struct {
	Status string
	Email  string
	Limit  int32
	Offset int32
}

type LoanApplicationRepository struct {
	db DBTX
}

func NewLoanApplicationRepository(db DBTX) *LoanApplicationRepository {
	return &LoanApplicationRepository{db: db}
}

func (r *LoanApplicationRepository) Create(ctx context.Context, application *entity.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (
			applicant_name, email, phone, amount_minor, currency,
			business_name, business_type, purpose, status, admin_notes, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		application.ApplicantName,
		application.Email,
		application.Phone,
		application.AmountMinor,
		application.Currency,
		application.BusinessName,
		application.BusinessType,
		application.Purpose,
		application.Status,
		nullableStringValue(application.AdminNotes),
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	application.ID = uint64(id)

	return nil
}

func (r *LoanApplicationRepository) Update(ctx context.Context, application *entity.LoanApplication) error {
	query := `
		UPDATE loan_applications SET
			applicant_name = ?,
			email = ?,
			phone = ?,
			amount_minor = ?,
			currency = ?,
			business_name = ?,
			business_type = ?,
			purpose = ?,
			status = ?,
			admin_notes = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		application.ApplicantName,
		application.Email,
		application.Phone,
		application.AmountMinor,
		application.Currency,
		application.BusinessName,
		application.BusinessType,
		application.Purpose,
		application.Status,
		nullableStringValue(application.AdminNotes),
		application.UpdatedAt,
		application.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLoanApplicationNotFound
	}

	return nil
}

func (r *LoanApplicationRepository) FindByID(ctx context.Context, id uint64) (*entity.LoanApplication, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_applications WHERE id = ?`

	application := &entity.LoanApplication{}
	if err := scanLoanApplication(r.db.QueryRowContext(ctx, query, id), application); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return application, nil
}

func (r *LoanApplicationRepository) List(ctx context.Context, filter LoanApplicationFilter) ([]*entity.LoanApplication, error) {
	query := `SELECT ` + loanColumns + ` FROM loan_applications`

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if strings.TrimSpace(filter.Status) != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if strings.TrimSpace(filter.Email) != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, filter.Email)
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

	applications := make([]*entity.LoanApplication, 0)
	for rows.Next() {
		item := &entity.LoanApplication{}
		if err := scanLoanApplication(rows, item); err != nil {
			return nil, err
		}
		applications = append(applications, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func scanLoanApplication(scan rowScanner, application *entity.LoanApplication) error {
	var adminNotes sql.NullString

	err := scan.Scan(
		&application.ID,
		&application.ApplicantName,
		&application.Email,
		&application.Phone,
		&application.AmountMinor,
		&application.Currency,
		&application.BusinessName,
		&application.BusinessType,
		&application.Purpose,
		&application.Status,
		&adminNotes,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err != nil {
		return err
	}

	application.AdminNotes = stringPtrFromNull(adminNotes)
	return nil
}
