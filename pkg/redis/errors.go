package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Connect when no URL is configured.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")

	// ErrFailedToParseURL indicates the connection URL is malformed.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")

	// ErrConnectionFailed indicates every connection attempt failed.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")

	// ErrUnavailable is reported by the health check when a ping fails.
	ErrUnavailable = errors.New("redis: unavailable")
)
