package service

import (
	"context"
	"errors"

	"cinereview/internal/domain"
)

// storeErr passes domain errors through and maps everything else, timeouts included,
// to Unavailable.
func storeErr(op string, err error) error {
	if domain.KindOf(err) != 0 {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Unavailable("request timed out", err)
	}
	return domain.Unavailable(op+" failed", err)
}
