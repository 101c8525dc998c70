package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

var ErrContactMessageNotFound = errors.New("contact message not found")

type ContactMessageRepository struct {
	db DBTX
}

func NewContactMessageRepository(db DBTX) *ContactMessageRepository {
	return &ContactMessageRepository{db: db}
}

func (r *ContactMessageRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, phone, subject, message, is_read, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		message.Name,
		message.Email,
		nullableStringValue(message.Phone),
		message.Subject,
		message.Message,
		message.Read,
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	message.ID = uint64(id)

	return nil
}

func (r *ContactMessageRepository) FindByID(ctx context.Context, id uint64) (*entity.ContactMessage, error) {
	query := `
		SELECT id, name, email, phone, subject, message, is_read, created_at, updated_at
		FROM contact_messages
		WHERE id = ?
	`

	message := &entity.ContactMessage{}
	var phone sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&message.ID,
		&message.Name,
		&message.Email,
		&phone,
		&message.Subject,
		&message.Message,
		&message.Read,
		&message.CreatedAt,
		&message.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	message.Phone = stringPtrFromNull(phone)

	return message, nil
}

func (r *ContactMessageRepository) List(ctx context.Context, unreadOnly bool, limit, offset int32) ([]*entity.ContactMessage, error) {
	query := `
		SELECT id, name, email, phone, subject, message, is_read, created_at, updated_at
		FROM contact_messages
	`
	args := make([]interface{}, 0, 3)
	if unreadOnly {
		query += " WHERE is_read = FALSE"
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*entity.ContactMessage, 0)
	for rows.Next() {
		message := &entity.ContactMessage{}
		var phone sql.NullString
		if err := rows.Scan(
			&message.ID,
			&message.Name,
			&message.Email,
			&phone,
			&message.Subject,
			&message.Message,
			&message.Read,
			&message.CreatedAt,
			&message.UpdatedAt,
		); err != nil {
			return nil, err
		}
		message.Phone = stringPtrFromNull(phone)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *ContactMessageRepository) MarkRead(ctx context.Context, id uint64, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContactMessageNotFound
	}

	return nil
}

func (r *ContactMessageRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContactMessageNotFound
	}

	return nil
}
