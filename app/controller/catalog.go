package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-marketplace/app/dto"
	"github.com/vibast-solutions/ms-go-marketplace/app/entity"
	"github.com/vibast-solutions/ms-go-marketplace/app/factory"
	"github.com/vibast-solutions/ms-go-marketplace/app/mapper"
	"github.com/vibast-solutions/ms-go-marketplace/app/service"
	"github.com/vibast-solutions/ms-go-marketplace/app/types"
)

type CatalogController struct {
	catalogService *service.CatalogService
	logger         logrus.FieldLogger
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         factory.NewModuleLogger("catalog-controller"),
	}
}

func (c *CatalogController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *CatalogController) PublishService(ctx echo.Context) error {
	req, err := types.NewPublishServiceRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.PublishService(ctx.Request().Context(), publishInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.writeError(ctx, http.StatusUnauthorized, "publisher wallet address is required")
		case errors.Is(err, service.ErrValidation):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Publish service failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.ServiceEnvelopeResponse{
		Service: mapper.ServiceToResponse(item),
	})
}

func (c *CatalogController) GetService(ctx echo.Context) error {
	req, err := types.NewGetServiceRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.catalogService.GetService(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "service not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get service failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ServiceEnvelopeResponse{
		Service: mapper.ServiceToResponse(item),
	})
}

func (c *CatalogController) ListServices(ctx echo.Context) error {
	items, err := c.catalogService.ListServices(ctx.Request().Context())
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List services failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListServicesResponse{
		Services: mapper.ServicesToResponse(items),
	})
}

func (c *CatalogController) ListPublisherServices(ctx echo.Context) error {
	req, err := types.NewListPublisherServicesRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.catalogService.ListPublisherServices(ctx.Request().Context(), req.PublisherAddress)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return c.writeError(ctx, http.StatusUnauthorized, "publisher wallet address is required")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List publisher services failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPublisherServicesResponse{
		Services: mapper.PublisherOverviewsToResponse(items),
	})
}

func (c *CatalogController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}

func publishInputFromRequest(req *types.PublishServiceRequest) service.PublishServiceInput {
	input := service.PublishServiceInput{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		PublisherAddress: req.PublisherAddress,
		Features:         req.Features,
		WebhookURL:       req.WebhookURL,
		MonthlyPrice:     req.MonthlyPrice,
		QuarterlyPrice:   req.QuarterlyPrice,
		YearlyPrice:      req.YearlyPrice,
		AutoRenewal:      req.AutoRenewal,
	}
	for _, field := range req.CustomFields {
		input.CustomFields = append(input.CustomFields, entity.CustomField{
			Name:     field.Name,
			Type:     field.Type,
			Required: field.Required,
		})
	}
	return input
}
