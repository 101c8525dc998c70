package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/money"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/repository"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/config"
)

type loanApplicationRepository interface {
	Create(ctx context.Context, application *entity.LoanApplication) error
	Update(ctx context.Context, application *entity.LoanApplication) error
	FindByID(ctx context.Context, id uint64) (*entity.LoanApplication, error)
	List(ctx context.Context, filter repository.LoanApplicationFilter) ([]*entity.LoanApplication, error)
}

type LoanService struct {
	loanRepo loanApplicationRepository
	currency string
}

func NewLoanService(loanRepo loanApplicationRepository, donationsCfg config.DonationsConfig) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		currency: donationsCfg.Currency,
	}
}

func (s *LoanService) SubmitApplication(ctx context.Context, req *types.LoanApplicationRequest) (*entity.LoanApplication, error) {
	amountMinor, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, newValidationError("amount", err.Error())
	}

	now := time.Now().UTC()
	application := &entity.LoanApplication{
		ApplicantName: req.ApplicantName,
		Email:         req.Email,
		Phone:         req.Phone,
		AmountMinor:   amountMinor,
		Currency:      s.currency,
		BusinessName:  req.BusinessName,
		BusinessType:  req.BusinessType,
		Purpose:       req.Purpose,
		Status:        entity.LoanStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.loanRepo.Create(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

func (s *LoanService) ListApplications(ctx context.Context, req *types.ListLoansRequest) ([]*entity.LoanApplication, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	return s.loanRepo.List(ctx, repository.LoanApplicationFilter{
		Status: req.Status,
		Email:  req.Email,
		Limit:  limit,
		Offset: req.Offset,
	})
}

func (s *LoanService) UpdateApplicationStatus(ctx context.Context, req *types.UpdateLoanStatusRequest) (*entity.LoanApplication, error) {
	application, err := s.loanRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrLoanApplicationNotFound
	}

	if !entity.LoanStatusTransitionAllowed(application.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, application.Status, req.Status)
	}

	application.Status = req.Status
	application.AdminNotes = normalizeOptionalString(req.AdminNotes)
	application.UpdatedAt = time.Now().UTC()

	if err := s.loanRepo.Update(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}
