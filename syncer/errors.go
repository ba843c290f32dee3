// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

// ValidationError means the request lacked required input. Nothing was
// persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
