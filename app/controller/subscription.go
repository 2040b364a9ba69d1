package controller

import (
	"errors"
	"fmt"
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

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		logger:              factory.NewModuleLogger("subscription-controller"),
	}
}

func (c *SubscriptionController) Subscribe(ctx echo.Context) error {
	req, err := types.NewSubscribeRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.subscriptionService.Subscribe(ctx.Request().Context(), service.SubscribeInput{
		ServiceID:         req.ServiceID,
		SubscriberAddress: req.SubscriberAddress,
		Plan:              entity.Plan(req.Plan),
		AutoRenewal:       req.AutoRenewal,
		WebhookData:       req.WebhookData,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.writeError(ctx, http.StatusUnauthorized, "subscriber wallet address is required")
		case errors.Is(err, service.ErrInvalidPlan), errors.Is(err, service.ErrMissingRequiredField), errors.Is(err, service.ErrValidation):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrServiceNotFound):
			return c.writeError(ctx, http.StatusNotFound, "service not found")
		case errors.Is(err, service.ErrAlreadySubscribed):
			return c.writeError(ctx, http.StatusConflict, "an active subscription to this service already exists")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Subscribe failed")
			return c.writeError(ctx, http.StatusInternalServerError, "subscription failed, please try again")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.SubscribeResponse{
		Message:      fmt.Sprintf("Successfully subscribed to %s", result.Service.Name),
		Subscription: mapper.SubscriptionToResponse(result.Subscription),
	})
}

func (c *SubscriptionController) GetSubscription(ctx echo.Context) error {
	req, err := types.NewGetSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.GetSubscription(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(item),
	})
}

func (c *SubscriptionController) ListSubscriptions(ctx echo.Context) error {
	req, err := types.NewListSubscriptionsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.subscriptionService.ListSubscriberSubscriptions(ctx.Request().Context(), req.Subscriber)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List subscriptions failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListSubscriptionsResponse{
		Subscriptions: mapper.SubscriptionsWithServicesToResponse(items),
	})
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
