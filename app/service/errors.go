package service

import "errors"

var (
	ErrUnauthenticated      = errors.New("wallet not connected")
	ErrValidation           = errors.New("invalid request")
	ErrServiceNotFound      = errors.New("service not found")
	ErrInvalidPlan          = errors.New("selected plan is not offered by this service")
	ErrMissingRequiredField = errors.New("required field missing")
	ErrAlreadySubscribed    = errors.New("subscriber already has an active subscription for this service")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionFailed   = errors.New("subscription failed")
)
