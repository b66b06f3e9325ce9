package odds

import "context"

// Provider fetches the current odds board for the configured sport.
type Provider interface {
	FetchOdds(ctx context.Context) ([]Record, error)
}
