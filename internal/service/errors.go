package service

import "errors"

var (
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInactiveUser            = errors.New("inactive user")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrForbidden           = errors.New("forbidden")
	ErrSelfDeleteForbidden = errors.New("cannot delete own account")

	ErrValidationUsername = errors.New("username must be 3-50 alphanumeric characters")
	ErrValidationEmail    = errors.New("invalid e-mail address")
	ErrValidationPassword = errors.New("password must be at least 8 characters and contain a letter and a digit")
	ErrValidationRole     = errors.New("unknown role")
	ErrValidationAgeGroup = errors.New("unknown age group")

	ErrValidationNoMessages      = errors.New("no chat messages provided")
	ErrValidationTooManyMessages = errors.New("too many chat messages")
	ErrValidationMessageContent  = errors.New("message content must be 1-2000 characters")
	ErrValidationMessageRole     = errors.New("unknown message role")
)
