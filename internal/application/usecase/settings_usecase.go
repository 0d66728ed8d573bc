package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// SettingsUseCase preferencias de la consola.
type SettingsUseCase struct {
	ac *access.Controller
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(ac *access.Controller) *SettingsUseCase {
	return &SettingsUseCase{ac: ac}
}

// Get preferencias actuales.
func (uc *SettingsUseCase) Get(ctx context.Context, s access.Session) (*dto.SettingsResponse, error) {
	var out dto.SettingsResponse
	err := uc.ac.View(ctx, s, entity.PermSettingsView, func(ws *workspace.Workspace, _ *entity.User) error {
		out = toSettingsResponse(ws.Settings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update reemplaza las preferencias; los campos vacíos conservan el valor actual.
func (uc *SettingsUseCase) Update(ctx context.Context, s access.Session, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	var out dto.SettingsResponse
	err := uc.ac.Execute(ctx, s, entity.PermSettingsEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		next := ws.Settings
		if in.Theme != "" {
			next.Theme = in.Theme
		}
		if in.AccentColor != "" {
			next.AccentColor = in.AccentColor
		}
		if in.Currency != "" {
			next.Currency = in.Currency
		}
		if in.Calendar != "" {
			next.Calendar = in.Calendar
		}
		if !next.Valid() {
			return "", fmt.Errorf("%w: valores de configuración no admitidos", domain.ErrValidation)
		}
		ws.Settings = next
		out = toSettingsResponse(next)
		return "actualizó la configuración", nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toSettingsResponse(s entity.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{Theme: s.Theme, AccentColor: s.AccentColor, Currency: s.Currency, Calendar: s.Calendar}
}
