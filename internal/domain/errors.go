package domain

import "errors"

var (
	ErrSoldOut                 = errors.New("sold out")
	ErrOutOfWindow             = errors.New("batch not currently purchasable")
	ErrTokenNotFound           = errors.New("token not found")
	ErrAlreadyValidated        = errors.New("ticket already validated")
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrBelowMinimum            = errors.New("amount below withdrawal minimum")
	ErrMissingPayoutDocument   = errors.New("producer has no payout document")
	ErrInvalidFeeConfig        = errors.New("no active fee configuration")
	ErrBatchNotFound           = errors.New("ticket batch not found")
	ErrSaleNotFound            = errors.New("sale not found")
	ErrEventNotFound           = errors.New("event not found")
	ErrProducerNotFound        = errors.New("producer not found")
	ErrUtmLinkNotFound         = errors.New("utm link not found")
	ErrWithdrawalNotFound      = errors.New("withdrawal request not found")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrInvalidEventType        = errors.New("invalid analytics event type")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrSaleNotPaid             = errors.New("sale is not paid")
	ErrInvalidID               = errors.New("invalid id")
	ErrDuplicateUtmCode        = errors.New("utm code already exists")
)
