package schedule

import (
	"context"
	"time"
)

// Provider fetches schedule dates in [start, end], inclusive, in calendar order.
type Provider interface {
	FetchSchedule(ctx context.Context, start, end time.Time) ([]SourceDay, error)
}
