package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/gateway"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/mapper"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/money"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

const signatureHeader = "x-lenco-signature"

type DonationController struct {
	donationService *service.DonationService
	logger          logrus.FieldLogger
}

func NewDonationController(donationService *service.DonationService) *DonationController {
	return &DonationController{
		donationService: donationService,
		logger:          factory.NewModuleLogger("donations-controller"),
	}
}

func (c *DonationController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *DonationController) InitiateDonation(ctx echo.Context) error {
	req, err := types.NewInitiateDonationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}

	item, err := c.donationService.InitiateDonation(ctx.Request().Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		var gatewayErr *gateway.Error
		switch {
		case errors.As(err, &validationErr):
			return c.writeError(ctx, http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &gatewayErr):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment provider rejected initiation")
			return c.writeError(ctx, http.StatusBadGateway, "payment provider error")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate donation failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	paymentURL := ""
	if item.PaymentURL != nil {
		paymentURL = *item.PaymentURL
	}
	paymentReference := ""
	if item.ProviderReference != nil {
		paymentReference = *item.ProviderReference
	}

	return ctx.JSON(http.StatusOK, &types.InitiateDonationResponse{
		Success:          true,
		PaymentURL:       paymentURL,
		Reference:        item.Reference,
		PaymentReference: paymentReference,
		Amount:           money.ToMajorUnits(item.AmountMinor),
		FormattedAmount:  money.Format(item.AmountMinor, item.Currency),
	})
}

func (c *DonationController) VerifyDonation(ctx echo.Context) error {
	req := types.NewVerifyDonationRequestFromContext(ctx)
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	verification, err := c.donationService.VerifyDonation(ctx.Request().Context(), req.Reference)
	if err != nil {
		var gatewayErr *gateway.Error
		if errors.As(err, &gatewayErr) {
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Payment provider verification failed")
			return c.writeError(ctx, http.StatusBadGateway, "payment provider error")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Verify donation failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	paidAt := ""
	if verification.PaidAt != nil {
		paidAt = verification.PaidAt.UTC().Format(time.RFC3339)
	}

	return ctx.JSON(http.StatusOK, &types.VerifyDonationResponse{
		Success:         verification.Status == gateway.StatusSuccess,
		Reference:       verification.Reference,
		Amount:          verification.AmountMajor,
		FormattedAmount: money.Format(verification.AmountMinor, c.donationService.Currency()),
		Status:          string(verification.Status),
		PaidAt:          paidAt,
	})
}

func (c *DonationController) HandleLencoWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "unable to read request body")
	}

	err = c.donationService.HandleWebhook(ctx.Request().Context(), payload, ctx.Request().Header.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWebhookUnauthorized):
			return c.writeError(ctx, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, service.ErrWebhookMalformed):
			return c.writeError(ctx, http.StatusBadRequest, "invalid webhook payload")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle webhook failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.WebhookAckResponse{Received: true})
}

func (c *DonationController) GetDonation(ctx echo.Context) error {
	reference := ctx.Param("reference")
	if reference == "" {
		return c.writeError(ctx, http.StatusBadRequest, "reference is required")
	}

	item, err := c.donationService.GetDonation(ctx.Request().Context(), reference)
	if err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "donation not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get donation failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.DonationToResponse(item))
}

func (c *DonationController) ListDonations(ctx echo.Context) error {
	req, err := types.NewListDonationsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.donationService.ListDonations(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List donations failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListDonationsResponse{Donations: mapper.DonationsToResponse(items)})
}

func (c *DonationController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
