package service

import (
	"context"
	"errors"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/repository"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

type contactMessageRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error
	FindByID(ctx context.Context, id uint64) (*entity.ContactMessage, error)
	List(ctx context.Context, unreadOnly bool, limit, offset int32) ([]*entity.ContactMessage, error)
	MarkRead(ctx context.Context, id uint64, now time.Time) error
	Delete(ctx context.Context, id uint64) error
}

type ContactService struct {
	messageRepo contactMessageRepository
}

func NewContactService(messageRepo contactMessageRepository) *ContactService {
	return &ContactService{messageRepo: messageRepo}
}

func (s *ContactService) SubmitMessage(ctx context.Context, req *types.ContactRequest) (*entity.ContactMessage, error) {
	now := time.Now().UTC()
	message := &entity.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     normalizeOptionalString(req.Phone),
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *ContactService) ListMessages(ctx context.Context, req *types.ListMessagesRequest) ([]*entity.ContactMessage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.messageRepo.List(ctx, req.UnreadOnly, limit, req.Offset)
}

func (s *ContactService) MarkMessageRead(ctx context.Context, id uint64) error {
	if err := s.messageRepo.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrContactMessageNotFound) {
			return ErrContactMessageNotFound
		}
		return err
	}
	return nil
}

func (s *ContactService) DeleteMessage(ctx context.Context, id uint64) error {
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContactMessageNotFound) {
			return ErrContactMessageNotFound
		}
		return err
	}
	return nil
}
