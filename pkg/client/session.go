package client

import (
	"coursehub_backend/pkg/progress"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyToken = "token"
	KeyRole  = "role"
)

// Claims 令牌载荷。客户端只用于展示，不做签名校验，权限以服务端为准。
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

// DecodeClaims 解析载荷但不校验签名
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Session 把 token 和 role 存进 KV，和进度共用同一个存储
type Session struct {
	kv progress.KV
}

func NewSession(kv progress.KV) *Session {
	return &Session{kv: kv}
}

// Save 保存令牌，并记录其中的角色用于展示
func (s *Session) Save(token string) (*Claims, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(KeyToken, token); err != nil {
		return nil, err
	}
	if err := s.kv.Set(KeyRole, claims.Role); err != nil {
		return nil, err
	}
	return claims, nil
}

// Token 未登录时返回空串
func (s *Session) Token() (string, error) {
	v, _, err := s.kv.Get(KeyToken)
	return v, err
}

func (s *Session) Role() (string, error) {
	v, _, err := s.kv.Get(KeyRole)
	return v, err
}

func (s *Session) Clear() error {
	if err := s.kv.Set(KeyToken, ""); err != nil {
		return err
	}
	return s.kv.Set(KeyRole, "")
}
