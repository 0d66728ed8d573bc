// Package auth implementa el inicio y cierre de sesión y la resolución de tokens a sesiones.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
	"github.com/jhoicas/inventario-console/internal/domain/repository"
	"github.com/jhoicas/inventario-console/pkg/jwt"
	"github.com/jhoicas/inventario-console/pkg/logger"
	"github.com/jhoicas/inventario-console/pkg/metrics"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PasswordVerifier compara una contraseña con su hash almacenado.
type PasswordVerifier func(hash, password string) error

// BcryptVerify verificador por defecto.
func BcryptVerify(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthUseCase casos de uso de autenticación: login, logout y resolución de sesión.
type AuthUseCase struct {
	runner   *workspace.TxRunner
	sessions repository.SessionStore
	jwtCfg   JWTConfig
	verify   PasswordVerifier
	log      *logger.Logger
	metrics  *metrics.ConsoleMetrics
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(runner *workspace.TxRunner, sessions repository.SessionStore, jwtCfg JWTConfig, log *logger.Logger, m *metrics.ConsoleMetrics) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = 60
	}
	return &AuthUseCase{
		runner:   runner,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		verify:   BcryptVerify,
		log:      log.Named("auth"),
		metrics:  m,
		now:      time.Now,
	}
}

// WithVerifier reemplaza la verificación de contraseñas (tests).
func (uc *AuthUseCase) WithVerifier(v PasswordVerifier) *AuthUseCase {
	uc.verify = v
	return uc
}

// Login verifica email/password, abre una sesión y retorna token + usuario.
// Credenciales incorrectas y email desconocido devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	var (
		user  *entity.User
		perms []entity.Permission
	)
	err := uc.runner.View(ctx, func(ws *workspace.Workspace) error {
		user = ws.Users.FindByEmail(in.Email)
		if user != nil {
			perms = ws.Registry.Permissions(user.Role)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil || in.Password == "" || uc.verify(user.PasswordHash, in.Password) != nil {
		uc.metrics.Login("invalid")
		uc.log.Warn().Str("email", strings.TrimSpace(in.Email)).Msg("credenciales inválidas")
		return nil, fmt.Errorf("%w: email o contraseña incorrectos", domain.ErrUnauthorized)
	}
	if !user.IsActive() {
		uc.metrics.Login("suspended")
		uc.log.Warn().Str("user_id", user.ID).Msg("login de cuenta suspendida")
		return nil, fmt.Errorf("%w: la cuenta está suspendida", domain.ErrForbidden)
	}

	now := uc.now()
	sessionID := uuid.New().String()
	ttl := time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
	if err := uc.sessions.Save(ctx, sessionID, user.ID, ttl); err != nil {
		return nil, fmt.Errorf("auth: guardar sesión: %w", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, sessionID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, now)
	if err != nil {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, err
	}
	uc.metrics.Login("success")
	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("sesión iniciada")

	out := &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(ttl),
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      string(user.Role),
			Status:    string(user.Status),
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		Permissions: make([]string, 0, len(perms)),
	}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, string(p))
	}
	return out, nil
}

// Logout cierra la sesión; los tokens emitidos para ella dejan de ser válidos.
func (uc *AuthUseCase) Logout(ctx context.Context, s access.Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("%w: sesión requerida", domain.ErrUnauthorized)
	}
	if err := uc.sessions.Delete(ctx, s.SessionID); err != nil {
		return fmt.Errorf("auth: cerrar sesión: %w", err)
	}
	uc.log.Info().Str("user_id", s.UserID).Msg("sesión cerrada")
	return nil
}

// Resolve valida el token y comprueba que la sesión siga abierta para el mismo usuario.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (access.Session, error) {
	userID, sessionID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return access.Session{}, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
	}
	owner, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return access.Session{}, fmt.Errorf("auth: leer sesión: %w", err)
	}
	if owner == "" || owner != userID {
		return access.Session{}, fmt.Errorf("%w: sesión cerrada o expirada", domain.ErrUnauthorized)
	}
	return access.Session{UserID: userID, SessionID: sessionID}, nil
}
