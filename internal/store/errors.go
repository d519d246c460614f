package store

import "errors"

var (
	ErrIndexes    = errors.New("store: failed to create indexes")
	ErrNoPassword = errors.New("store: user has no password")
)
