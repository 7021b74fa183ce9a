package admin

import (
	"context"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
	adminrepo "github.com/jnvillamor/smart-parking-app/repository/admin"
)

type Repo interface {
	DashboardSummary(ctx context.Context, now time.Time) (*model.DashboardSummary, error)
}

type Service interface {
	Dashboard(ctx context.Context) (*model.DashboardSummary, error)
}

var _ Repo = adminrepo.Repo(nil)

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service {
	return &service{r: r, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	return s.r.DashboardSummary(ctx, s.now())
}
