package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/validation"
	rediskey "nuvyra_admin/pkg/redis"
)

// AuthService 管理员登录、登出与会话校验。
type AuthService struct {
	admins *repository.AdminRepository
	signer *auth.Signer
	rdb    *rd.Client
}

func NewAuthService(admins *repository.AdminRepository, signer *auth.Signer, rdb *rd.Client) *AuthService {
	return &AuthService{admins: admins, signer: signer, rdb: rdb}
}

// Session 登录成功后写入 cookie 的令牌。
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     *model.AdminUser
}

// SignIn 校验邮箱密码并签发会话令牌。
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, claims, err := s.signer.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	zap.L().Info("admin signed in", zap.Uint("admin_id", u.ID))
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Admin: u}, nil
}

// Authenticate 解析令牌，检查吊销状态，并确认管理员仍然存在。
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.AdminUser, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if s.rdb != nil {
		revoked, err := rediskey.IsSessionRevoked(ctx, s.rdb, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check session revocation: %w", err)
		}
		if revoked {
			return nil, ErrUnauthenticated
		}
	}
	id, err := claims.AdminID()
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

// SignOut 吊销令牌直到其原本的过期时间；无效令牌直接忽略。
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.signer.Parse(token)
	if err != nil || s.rdb == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := rediskey.RevokeSession(ctx, s.rdb, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// CreateAdmin 创建管理员账号（命令行工具使用）。
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*model.AdminUser, error) {
	verr := &validation.Error{}
	if err := validation.Var("email", email, "required,email"); err != nil {
		var fe *validation.Error
		if errors.As(err, &fe) {
			verr = fe
		} else {
			return nil, err
		}
	}
	if len(password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.AdminUser{Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return u, nil
}
