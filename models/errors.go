package models

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrUnknownGame          = errors.New("unknown game")
	ErrBetOutOfRange        = errors.New("bet amount out of range")
	ErrDrawUnavailable      = errors.New("outcome draw unavailable")
	ErrInvalidNickname      = errors.New("invalid nickname")
	ErrDepositOutOfRange    = errors.New("deposit amount out of range")
	ErrPaymentNotFound      = errors.New("payment request not found")
	ErrAlreadyCredited      = errors.New("payment already credited")
	ErrPaymentExpired       = errors.New("payment request expired")
	ErrAmountMismatch       = errors.New("provider amount does not cover the request")
	ErrProviderUnavailable  = errors.New("payment provider unavailable")
	ErrWithdrawalOutOfRange = errors.New("withdrawal amount out of range")
	ErrWithdrawalNotFound   = errors.New("withdrawal request not found")
	ErrWithdrawalResolved   = errors.New("withdrawal request already resolved")
)
