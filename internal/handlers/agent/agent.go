// internal/handlers/agent/agent.go
package agent

import (
	"context"

	"jiudi-console/internal/domain/agent"
	"jiudi-console/internal/handlers/crud"
	agentService "jiudi-console/internal/service/agent"
	"jiudi-console/internal/web"

	"go.uber.org/zap"
)

// AgentHandler is the admin agent management page.
type AgentHandler struct {
	*crud.Page[agent.Agent, agent.Draft]
}

func NewAgentHandler(svc *agentService.AgentService, renderer *web.Renderer, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		Page: &crud.Page[agent.Agent, agent.Draft]{
			Base:      "/admin/agents",
			Template:  "agents",
			Title:     "Quản lý Đại lý",
			Lister:    svc,
			Writer:    svc,
			ID:        func(a agent.Agent) string { return a.ID },
			NewDraft:  agent.NewDraft,
			DraftFrom: agent.DraftFrom,
			Messages: crud.Messages{
				Created:       "Cập nhật đại lý thành công!",
				Updated:       "Cập nhật đại lý thành công!",
				Deleted:       "Xoá đại lý thành công!",
				SaveFailed:    "Lỗi lưu dữ liệu",
				DeleteFailed:  "Xoá thất bại",
				ConfirmDelete: "Bạn có chắc xoá đại lý này? Các dữ liệu liên quan có thể bị ảnh hưởng!",
			},
			Renderer: renderer,
			Logger:   logger.Named("agents"),
		},
	}
}

// OptionsExtra is the agent lookup behind the filter and assignment selects
// of other admin pages.
func OptionsExtra(svc *agentService.AgentService) crud.Extra {
	return crud.Extra{
		Name: "agents",
		Fetch: func(ctx context.Context) (interface{}, error) {
			return svc.Options(ctx)
		},
	}
}
