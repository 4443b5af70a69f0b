package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// sessionSkewTolerance 令牌登录时间与库中登录时间允许的误差
const sessionSkewTolerance = 1000 * time.Millisecond

// defaultJWTExpireHours 未配置时的令牌有效期（7 天）
const defaultJWTExpireHours = 168

// SessionClaims 会话 JWT 声明
type SessionClaims struct {
	UserID      uint           `json:"user_id"`
	Role        constants.Role `json:"role"`
	LastLoginAt int64          `json:"last_login_at"` // 毫秒时间戳
	jwt.RegisteredClaims
}

// SessionIdentity 已认证的调用方
type SessionIdentity struct {
	UserID   uint
	Username string
	Role     constants.Role
}

// SessionGuard 令牌签发与校验
type SessionGuard struct {
	cfg      config.JWTConfig
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewSessionGuard 创建会话守卫
func NewSessionGuard(cfg config.JWTConfig, userRepo repository.UserRepository) *SessionGuard {
	return &SessionGuard{
		cfg:      cfg,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (g *SessionGuard) expireHours() int {
	if g.cfg.ExpireHours <= 0 {
		return defaultJWTExpireHours
	}
	return g.cfg.ExpireHours
}

// IssueToken 为刚登录的用户签发令牌
func (g *SessionGuard) IssueToken(user *models.User, loginAt time.Time) (string, time.Time, error) {
	issuedAt := g.now()
	expiresAt := issuedAt.Add(time.Duration(g.expireHours()) * time.Hour)
	claims := SessionClaims{
		UserID:      user.ID,
		Role:        user.Role,
		LastLoginAt: loginAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(g.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken 校验签名与有效期
func (g *SessionGuard) ParseToken(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate 校验令牌并比对库中的会话状态
func (g *SessionGuard) Authenticate(tokenString string) (*SessionIdentity, error) {
	claims, err := g.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := g.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrAccountBlocked
	}
	if !user.IsLoggedIn || isSuperseded(claims.LastLoginAt, user.LastLoginAt) {
		return nil, ErrSessionSuperseded
	}
	return &SessionIdentity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// BearerToken 从 Authorization 头提取令牌
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func isSuperseded(tokenLoginMillis int64, stored *time.Time) bool {
	if stored == nil {
		return false
	}
	return tokenLoginMillis < stored.UnixMilli()-sessionSkewTolerance.Milliseconds()
}
