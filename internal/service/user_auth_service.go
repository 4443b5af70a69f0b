package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
)

// UserBrief 用户公开信息
type UserBrief struct {
	ID       uint           `json:"id"`
	Username string         `json:"username"`
	Role     constants.Role `json:"role"`
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserBrief `json:"user"`
}

// UserAuthService 用户注册与登录服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	guard    *SessionGuard
	now      func() time.Time
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, guard *SessionGuard) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		guard:    guard,
		now:      time.Now,
	}
}

// HashPassword 使用配置的 cost 生成 bcrypt 哈希
func (s *UserAuthService) HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if s.cfg != nil && s.cfg.Bcrypt.Cost >= bcrypt.MinCost && s.cfg.Bcrypt.Cost <= bcrypt.MaxCost {
		cost = s.cfg.Bcrypt.Cost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register 注册普通用户
func (s *UserAuthService) Register(username, password string) (*UserBrief, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrPasswordRequired
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, ErrUsernameLength
	}

	exist, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if exist != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         constants.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Infow("user_registered", "user_id", user.ID, "username", user.Username)
	return &UserBrief{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Login 校验密码并建立唯一会话
func (s *UserAuthService) Login(username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountBlocked
	}
	if user.IsLoggedIn {
		return nil, ErrSessionConflict
	}

	loginAt := s.now().Truncate(time.Millisecond)
	acquired, err := s.userRepo.MarkLoggedIn(user.ID, loginAt)
	if err != nil {
		return nil, fmt.Errorf("mark logged in: %w", err)
	}
	if !acquired {
		return nil, ErrSessionConflict
	}

	token, expiresAt, err := s.guard.IssueToken(user, loginAt)
	if err != nil {
		if clearErr := s.userRepo.ClearLoggedIn(user.ID); clearErr != nil {
			logger.Warnw("user_login_rollback_failed", "user_id", user.ID, "error", clearErr)
		}
		return nil, err
	}

	logger.Infow("user_logged_in", "user_id", user.ID)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      UserBrief{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

// Logout 清除会话，之后旧令牌不再可用
func (s *UserAuthService) Logout(userID uint) error {
	if userID == 0 {
		return ErrTokenInvalid
	}
	if err := s.userRepo.ClearLoggedIn(userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logger.Infow("user_logged_out", "user_id", userID)
	return nil
}
