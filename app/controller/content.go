package controller

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/content"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/factory"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/service"
	"github.com/mounirclicksalesmedia/robertosavedreamsfoundation-sub001/app/types"
)

type ContentController struct {
	contentService *service.ContentService
	logger         logrus.FieldLogger
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{
		contentService: contentService,
		logger:         factory.NewModuleLogger("content-controller"),
	}
}

func (c *ContentController) GetPage(ctx echo.Context) error {
	page := ctx.Param("page")

	doc, updatedAt, err := c.contentService.GetPage(page)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrUnknownPage):
			return c.writeError(ctx, http.StatusNotFound, "unknown content page")
		case errors.Is(err, content.ErrPageNotFound):
			return c.writeError(ctx, http.StatusNotFound, "content page not found")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get content page failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.ContentResponse{
		Page:      page,
		UpdatedAt: updatedAt.UTC().Format(time.RFC3339),
		Data:      doc,
	})
}

func (c *ContentController) UpdatePage(ctx echo.Context) error {
	page := ctx.Param("page")

	doc, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "unable to read request body")
	}

	if err := c.contentService.UpdatePage(page, doc); err != nil {
		switch {
		case errors.Is(err, content.ErrUnknownPage):
			return c.writeError(ctx, http.StatusNotFound, "unknown content page")
		case errors.Is(err, content.ErrInvalidDoc):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Update content page failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Content page updated"})
}

func (c *ContentController) ListPages(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string][]string{"pages": c.contentService.Pages()})
}

func (c *ContentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
