package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/mapper"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

type ContactController struct {
	contactService *service.ContactService
	logger         logrus.FieldLogger
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
		logger:         factory.NewModuleLogger("contact-controller"),
	}
}

func (c *ContactController) SubmitMessage(ctx echo.Context) error {
	req, err := types.NewContactRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.contactService.SubmitMessage(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Submit contact message failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &types.SubmitResponse{Success: true, ID: item.ID})
}

func (c *ContactController) ListMessages(ctx echo.Context) error {
	req, err := types.NewListMessagesRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.contactService.ListMessages(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List contact messages failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListContactMessagesResponse{Messages: mapper.ContactMessagesToResponse(items)})
}

func (c *ContactController) MarkMessageRead(ctx echo.Context) error {
	id, err := messageID(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid message id")
	}

	if err := c.contactService.MarkMessageRead(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrContactMessageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "message not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Mark message read failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Message marked as read"})
}

func (c *ContactController) DeleteMessage(ctx echo.Context) error {
	id, err := messageID(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid message id")
	}

	if err := c.contactService.DeleteMessage(ctx.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrContactMessageNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "message not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Delete message failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Message deleted"})
}

func (c *ContactController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

func messageID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}
