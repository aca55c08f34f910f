package igdb

import "errors"

// Sentinel errors for IGDB API failures.
var (
	ErrNotFound       = errors.New("igdb: game not found")
	ErrRateLimited    = errors.New("igdb: rate limited")
	ErrBadRequest     = errors.New("igdb: bad request")
	ErrUnauthorized   = errors.New("igdb: unauthorized")
	ErrServer         = errors.New("igdb: server error")
	ErrNoCredentials = errors.New("igdb: missing twitch credentials")
)
