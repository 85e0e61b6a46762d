package errors

import "errors"

var (
	ErrNoDateMode     = errors.New("no departure date mode configured")
	ErrBadDate        = errors.New("invalid date")
	ErrBadStayRange   = errors.New("invalid stay range")
	ErrBadRangeLength = errors.New("invalid range length")
	ErrBadTimeWindow  = errors.New("invalid time window")
	ErrBadSortKey     = errors.New("invalid sort key")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrProvider       = errors.New("provider request failed")
	ErrOffersNotFound = errors.New("offers not found")
)
