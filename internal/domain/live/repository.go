package live

import "context"

// Source loads live results. The bool is false when the person is unknown upstream.
type Source interface {
	GetPersonResults(ctx context.Context, personID string) (PersonResults, bool, error)
}
