package billing

import "errors"

var (
	ErrUnknownPackage      = errors.New("unknown credit package")
	ErrDuplicatePayment    = errors.New("payment already processed")
	ErrInvalidWebhookEvent = errors.New("invalid webhook event")
	ErrInternal            = errors.New("internal error")
)
