// Package client 课程服务的 HTTP SDK，以及列表缓存和展示辅助。
package client

import (
	"bytes"
	"context"
	"coursehub_backend/internal/model"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Kind)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

type envelope struct {
	Code    int             `json:"code"`
	Kind    string          `json:"kind"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New baseURL 形如 http://localhost:5000/api
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

// CourseDraft 创建课程的请求体
type CourseDraft struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Thumbnail   string          `json:"thumbnail,omitempty" yaml:"thumbnail"`
	Category    string          `json:"category,omitempty" yaml:"category"`
	Difficulty  string          `json:"difficulty,omitempty" yaml:"difficulty"`
	Sections    []model.Section `json:"sections" yaml:"sections"`
}

// CoursePatch nil 字段不会发送，服务端保留原值
type CoursePatch struct {
	Title       *string          `json:"title,omitempty" yaml:"title"`
	Description *string          `json:"description,omitempty" yaml:"description"`
	Thumbnail   *string          `json:"thumbnail,omitempty" yaml:"thumbnail"`
	Category    *string          `json:"category,omitempty" yaml:"category"`
	Difficulty  *string          `json:"difficulty,omitempty" yaml:"difficulty"`
	Sections    *[]model.Section `json:"sections,omitempty" yaml:"sections"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Kind: env.Kind, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register 成功后 Token 会被设置到客户端上
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Token, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	courses := []model.Course{}
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) SearchCourses(ctx context.Context, term string) ([]model.Course, error) {
	path := "/courses/search"
	if strings.TrimSpace(term) != "" {
		path += "/" + url.PathEscape(term)
	}

	courses := []model.Course{}
	if err := c.do(ctx, http.MethodGet, path, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := c.do(ctx, http.MethodGet, "/courses/"+url.PathEscape(id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) CreateCourse(ctx context.Context, draft CourseDraft) (*model.Course, error) {
	if draft.Sections == nil {
		draft.Sections = []model.Section{}
	}
	var course model.Course
	if err := c.do(ctx, http.MethodPost, "/courses", draft, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id string, patch CoursePatch) (*model.Course, error) {
	var course model.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(id), patch, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(id), nil, nil)
}

// BulkDeleteCourses 返回服务端实际删除的 ID
func (c *Client) BulkDeleteCourses(ctx context.Context, ids []string) ([]string, error) {
	var out struct {
		Deleted []string `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodPost, "/courses/bulk-delete", map[string][]string{"ids": ids}, &out); err != nil {
		return nil, err
	}
	return out.Deleted, nil
}

func (c *Client) Explain(ctx context.Context, concept string) (string, error) {
	var out struct {
		Explanation string `json:"explanation"`
	}
	if err := c.do(ctx, http.MethodPost, "/explain", map[string]string{"concept": concept}, &out); err != nil {
		return "", err
	}
	return out.Explanation, nil
}

// GenerateQuiz 返回模型生成的原始 JSON
func (c *Client) GenerateQuiz(ctx context.Context, courseID string, sectionIndex, lessonIndex int) (json.RawMessage, error) {
	var out json.RawMessage
	body := map[string]interface{}{
		"courseId":     courseID,
		"sectionIndex": sectionIndex,
		"lessonIndex":  lessonIndex,
	}
	if err := c.do(ctx, http.MethodPost, "/generate-quiz", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}
