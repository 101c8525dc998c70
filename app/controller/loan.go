package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/mapper"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

type LoanController struct {
	loanService *service.LoanService
	logger      logrus.FieldLogger
}

func NewLoanController(loanService *service.LoanService) *LoanController {
	return &LoanController{
		loanService: loanService,
		logger:      factory.NewModuleLogger("loans-controller"),
	}
}

func (c *LoanController) SubmitApplication(ctx echo.Context) error {
	req, err := types.NewLoanApplicationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.loanService.SubmitApplication(ctx.Request().Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return c.writeError(ctx, http.StatusBadRequest, validationErr.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Submit loan application failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.SubmitResponse{Success: true, ID: item.ID})
}

func (c *LoanController) ListApplications(ctx echo.Context) error {
	req, err := types.NewListLoansRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.loanService.ListApplications(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List loan applications failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListLoanApplicationsResponse{Applications: mapper.LoanApplicationsToResponse(items)})
}

func (c *LoanController) UpdateApplicationStatus(ctx echo.Context) error {
	req, err := types.NewUpdateLoanStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.loanService.UpdateApplicationStatus(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoanApplicationNotFound):
			return c.writeError(ctx, http.StatusNotFound, "loan application not found")
		case errors.Is(err, service.ErrInvalidStatusTransition):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update loan status failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.LoanApplicationToResponse(item))
}

func (c *LoanController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
