package mapper

import (
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/money"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

func DonationToResponse(item *entity.Donation) *types.DonationResponse {
	if item == nil {
		return nil
	}

	return &types.DonationResponse{
		ID:               item.ID,
		Reference:        item.Reference,
		PaymentReference: derefString(item.ProviderReference),
		Amount:           money.ToMajorUnits(item.AmountMinor),
		FormattedAmount:  money.Format(item.AmountMinor, item.Currency),
		Currency:         item.Currency,
		Status:           item.Status,
		FirstName:        item.DonorFirstName,
		LastName:         item.DonorLastName,
		Email:            item.DonorEmail,
		Phone:            derefString(item.DonorPhone),
		Frequency:        item.Frequency,
		PaymentURL:       derefString(item.PaymentURL),
		Metadata:         cloneMetadata(item.Metadata),
		PaidAt:           formatOptionalTime(item.PaidAt),
		FailureReason:    derefString(item.FailureReason),
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func DonationsToResponse(items []*entity.Donation) []*types.DonationResponse {
	result := make([]*types.DonationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, DonationToResponse(item))
	}
	return result
}

func ContactMessageToResponse(item *entity.ContactMessage) *types.ContactMessageResponse {
	if item == nil {
		return nil
	}

	return &types.ContactMessageResponse{
		ID:        item.ID,
		Name:      item.Name,
		Email:     item.Email,
		Phone:     derefString(item.Phone),
		Subject:   item.Subject,
		Message:   item.Message,
		Read:      item.Read,
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ContactMessagesToResponse(items []*entity.ContactMessage) []*types.ContactMessageResponse {
	result := make([]*types.ContactMessageResponse, 0, len(items))
	for _, item := range items {
		result = append(result, ContactMessageToResponse(item))
	}
	return result
}

func LoanApplicationToResponse(item *entity.LoanApplication) *types.LoanApplicationResponse {
	if item == nil {
		return nil
	}

	return &types.LoanApplicationResponse{
		ID:              item.ID,
		ApplicantName:   item.ApplicantName,
		Email:           item.Email,
		Phone:           item.Phone,
		Amount:          money.ToMajorUnits(item.AmountMinor),
		FormattedAmount: money.Format(item.AmountMinor, item.Currency),
		Currency:        item.Currency,
		BusinessName:    item.BusinessName,
		BusinessType:    item.BusinessType,
		Purpose:         item.Purpose,
		Status:          item.Status,
		AdminNotes:      derefString(item.AdminNotes),
		CreatedAt:       item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func LoanApplicationsToResponse(items []*entity.LoanApplication) []*types.LoanApplicationResponse {
	result := make([]*types.LoanApplicationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, LoanApplicationToResponse(item))
	}
	return result
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func cloneMetadata(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
