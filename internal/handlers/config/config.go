// internal/handlers/config/config.go
package config

import (
	"net/http"

	"jiudi-console/internal/domain/config"
	"jiudi-console/internal/handlers/crud"
	"jiudi-console/internal/middleware"
	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/session"
	service "jiudi-console/internal/service/config"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const (
	title        = "Cấu hình Quy tắc Mã giảm giá"
	msgSaved     = "Đã cập nhật cấu hình thành công!"
	msgSaveError = "Lỗi cập nhật cấu hình"
)

// ConfigView is the discount rule form data.
type ConfigView struct {
	Form config.RulesForm
}

type ConfigHandler struct {
	configService *service.ConfigService
	renderer      *web.Renderer
	logger        *zap.Logger
}

func NewConfigHandler(configService *service.ConfigService, renderer *web.Renderer, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{
		configService: configService,
		renderer:      renderer,
		logger:        logger,
	}
}

// Show renders the singleton. A failed fetch shows the defaults.
func (h *ConfigHandler) Show(c *gin.Context) {
	rules, err := h.configService.Get(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to load discount rules", zap.Error(err))
	}
	h.render(c, http.StatusOK, config.FormFromRules(rules))
}

// Save replaces the rules. A rejected form stays on screen as typed.
func (h *ConfigHandler) Save(c *gin.Context) {
	var form config.RulesForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		h.render(c, http.StatusBadRequest, form, session.Failure(crud.TitleError, msgSaveError))
		return
	}

	if _, err := h.configService.Save(c.Request.Context(), form); err != nil {
		h.logger.Info("failed to save discount rules", zap.Error(err))
		h.render(c, crud.StatusFor(err), form, session.Failure(crud.TitleError, xerrors.ServerMessage(err, msgSaveError)))
		return
	}

	middleware.Flash(c, session.Success(crud.TitleSuccess, msgSaved))
	middleware.Redirect(c, http.StatusSeeOther, "/admin/config")
}

func (h *ConfigHandler) render(c *gin.Context, status int, form config.RulesForm, flashes ...session.Flash) {
	h.renderer.HTML(c, status, "config", web.View{
		Title:   title,
		Data:    ConfigView{Form: form},
		Flashes: flashes,
	})
}
