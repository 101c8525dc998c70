package service

import (
	"context"
	"time"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/entity"
)

// RunReconcileBatch re-verifies donations that have sat in pending past the
// staleness window, pulling the authoritative status from the provider.
func (s *DonationService) RunReconcileBatch(ctx context.Context) error {
	now := time.Now().UTC()
	before := now.Add(-s.donationsCfg.ReconcileStaleAfter)
	items, err := s.donationRepo.ListStalePending(ctx, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, donation := range items {
		if donation == nil {
			continue
		}

		verification, err := s.gateway.VerifyPayment(ctx, donation.Reference)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}

		newStatus := donationStatusFromGateway(verification.Status)
		var failureReason *string
		if newStatus == entity.DonationStatusFailed && verification.RawStatus != "" {
			failureReason = normalizeOptionalString("provider status: " + verification.RawStatus)
		}

		if err := s.applyStatus(ctx, donation, newStatus, verification.PaidAt, failureReason, "donation_reconciled", nil); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

// RunExpirePendingBatch fails donations whose payment window has lapsed
// without the provider ever settling them.
func (s *DonationService) RunExpirePendingBatch(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.donationsCfg.PendingTimeout)
	items, err := s.donationRepo.ListExpiredPending(ctx, cutoff, s.batchSize())
	if err != nil {
		return err
	}

	reason := "payment window expired"
	var firstErr error
	for _, donation := range items {
		if donation == nil || entity.TerminalDonationStatus(donation.Status) {
			continue
		}

		if err := s.applyStatus(ctx, donation, entity.DonationStatusFailed, nil, &reason, "donation_expired", nil); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func keepFirstErr(current, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
