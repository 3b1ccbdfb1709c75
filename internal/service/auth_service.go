package service

import (
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService 凭证服务：注册、登录、签发令牌
type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 注册时角色强制为 user，忽略客户端传入的任何角色
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	user, err := s.createUser(ctx, name, email, password, model.RoleUser)
	if err != nil {
		return "", err
	}
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// CreateAdmin 仅供命令行离线开通管理员，不暴露 HTTP 接口
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	return s.createUser(ctx, name, email, password, model.RoleAdmin)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrStore, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

const maxPasswordBytes = 72

var errPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes", util.ErrInvalidInput)

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role model.UserRole) (*model.User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", util.ErrInvalidInput)
	}
	// bcrypt 只接受 72 字节以内的密码
	if len(password) > maxPasswordBytes {
		return nil, errPasswordTooLong
	}

	_, err := s.UserRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", util.ErrStore, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errPasswordTooLong
	}
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}
	// 并发注册同一邮箱时由唯一索引兜底
	if err := s.UserRepo.Create(ctx, user); errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, util.ErrConflict
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStore, err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetProfile 当前登录用户的资料
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: User not found", util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStore, err)
	}
	return user, nil
}
