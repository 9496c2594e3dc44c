package resource

import "errors"

// ErrMemoryLimit is returned when a reservation can never be satisfied.
var ErrMemoryLimit = errors.New("resource: memory limit exceeded")
