// internal/service/stats/stats.go
package stats

import (
	"context"

	"jiudi-console/internal/domain/stats"
	"jiudi-console/internal/pkg/apiclient"
)

// StatsService fetches dashboard figures for one role.
type StatsService struct {
	client *apiclient.Client
	path   string
}

func NewAdminStatsService(client *apiclient.Client) *StatsService {
	return &StatsService{client: client, path: "/admin/stats"}
}

func NewAgentStatsService(client *apiclient.Client) *StatsService {
	return &StatsService{client: client, path: "/agent/stats"}
}

// Get always returns a renderable value: a zero summary and an empty
// series stand in for anything missing or failed.
func (s *StatsService) Get(ctx context.Context) (stats.Stats, error) {
	var raw *stats.Stats
	err := s.client.Get(ctx, s.path, &raw)
	if err != nil {
		return (*stats.Stats)(nil).Normalized(), err
	}
	return raw.Normalized(), nil
}
