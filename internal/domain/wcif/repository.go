package wcif

import "context"

// Source loads public WCIF documents.
type Source interface {
	GetPublic(ctx context.Context, competitionID string) (Wcif, error)
}
