// internal/service/config/config.go
package config

import (
	"context"

	"jiudi-console/internal/domain/config"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/resource"

	"go.uber.org/zap"
)

type ConfigService struct {
	client *apiclient.Client
	logger *zap.Logger
}

func NewConfigService(client *apiclient.Client, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		client: client,
		logger: logger,
	}
}

// Get fetches the discount rules. Fields the API leaves out keep their
// defaults; on error the defaults come back alongside it.
func (s *ConfigService) Get(ctx context.Context) (config.DiscountRuleConfig, error) {
	return s.fetch(ctx, "/admin/config")
}

// AgentRules is the read-only view agents get of the same rules.
func (s *ConfigService) AgentRules(ctx context.Context) (config.DiscountRuleConfig, error) {
	return s.fetch(ctx, "/agent/config")
}

// Save parses the form and replaces the singleton.
func (s *ConfigService) Save(ctx context.Context, form config.RulesForm) (config.DiscountRuleConfig, error) {
	rules, err := form.Parse()
	if err != nil {
		return config.DiscountRuleConfig{}, resource.Invalid(err)
	}
	if err := s.client.Put(ctx, "/admin/config", rules, nil); err != nil {
		return config.DiscountRuleConfig{}, err
	}
	s.logger.Info("discount rules updated",
		zap.String("min_percent", rules.MinDiscountPercent.String()),
		zap.String("max_percent", rules.MaxDiscountPercent.String()),
		zap.Bool("apply_rules", rules.ApplyRules),
	)
	return rules, nil
}

func (s *ConfigService) fetch(ctx context.Context, path string) (config.DiscountRuleConfig, error) {
	rules := config.DefaultRules()
	if err := s.client.Get(ctx, path, &rules); err != nil {
		return config.DefaultRules(), err
	}
	return rules, nil
}
