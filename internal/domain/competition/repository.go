package competition

import (
	"context"
	"time"
)

const (
	DefaultSort    = "start_date,end_date,name"
	DefaultPerPage = 20
)

// ListQuery selects a page of upcoming and ongoing competitions.
type ListQuery struct {
	OngoingAndFuture time.Time
	Sort             string
	PerPage          int
	Page             int
}

type Source interface {
	List(ctx context.Context, query ListQuery) ([]Competition, error)
	Search(ctx context.Context, query string) ([]Competition, error)
}
