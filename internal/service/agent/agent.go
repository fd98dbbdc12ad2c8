// internal/service/agent/agent.go
package agent

import (
	"context"
	"net/url"
	"strconv"

	"jiudi-console/internal/domain/agent"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/pagination"
	"jiudi-console/internal/pkg/resource"

	"go.uber.org/zap"
)

// optionsLimit bounds the agent list used for dropdowns.
const optionsLimit = 100

type AgentService struct {
	agents *resource.Resource[agent.Agent, agent.Draft]
	logger *zap.Logger
}

func NewAgentService(client *apiclient.Client, logger *zap.Logger) *AgentService {
	return &AgentService{
		agents: resource.New[agent.Agent, agent.Draft](client, "/admin/agents"),
		logger: logger,
	}
}

func (s *AgentService) List(ctx context.Context, st pagination.State) (resource.ListResult[agent.Agent], error) {
	return s.agents.List(ctx, st)
}

// Options returns the first agents for filter and assignment selects.
func (s *AgentService) Options(ctx context.Context) ([]agent.Agent, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(optionsLimit))
	out, err := s.agents.ListWith(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(out.Data) > optionsLimit {
		out.Data = out.Data[:optionsLimit]
	}
	return out.Data, nil
}

func (s *AgentService) Create(ctx context.Context, d agent.Draft) error {
	if err := d.Validate(); err != nil {
		return resource.Invalid(err)
	}
	if err := s.agents.Create(ctx, d); err != nil {
		return err
	}
	s.logger.Info("agent created", zap.String("phone", d.Phone))
	return nil
}

func (s *AgentService) Update(ctx context.Context, id string, d agent.Draft) error {
	if err := d.Validate(); err != nil {
		return resource.Invalid(err)
	}
	if err := s.agents.Update(ctx, id, d); err != nil {
		return err
	}
	s.logger.Info("agent updated", zap.String("agent_id", id))
	return nil
}

func (s *AgentService) Delete(ctx context.Context, id string) error {
	if err := s.agents.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("agent deleted", zap.String("agent_id", id))
	return nil
}
