// Package client: типизированный HTTP клиент REST API биржи.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New создаёт клиент. baseURL: адрес сервера без /api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Register регистрирует пользователя и запоминает выданный токен.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", params, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// Login входит и запоминает токен.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	q := url.Values{}
	if filter.Skill != "" {
		q.Set("skill", filter.Skill)
	}
	if filter.PaymentMethod != "" {
		q.Set("paymentMethod", filter.PaymentMethod)
	}
	path := "/api/projects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var projects []Project
	if err := c.do(ctx, http.MethodGet, path, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) MyProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/my-projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProject(ctx context.Context, project NewProject) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", project, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProjectStatus(ctx context.Context, id, status string) (*Project, error) {
	var p Project
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/projects/"+url.PathEscape(id)+"/status", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SubmitBid(ctx context.Context, bid NewBid) (*Bid, error) {
	var b Bid
	if err := c.do(ctx, http.MethodPost, "/api/bids", bid, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ProjectBids(ctx context.Context, projectID string) ([]Bid, error) {
	var bids []Bid
	if err := c.do(ctx, http.MethodGet, "/api/bids/project/"+url.PathEscape(projectID), nil, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

func (c *Client) MyBids(ctx context.Context) ([]Bid, error) {
	var bids []Bid
	if err := c.do(ctx, http.MethodGet, "/api/bids/my-bids", nil, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// SetBidStatus принимает (accepted) или отклоняет (rejected) заявку.
func (c *Client) SetBidStatus(ctx context.Context, bidID, status string) (*Bid, error) {
	var b Bid
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/bids/"+url.PathEscape(bidID)+"/status", body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: не удалось сериализовать запрос: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "BAD_RESPONSE", Message: fmt.Sprintf("не удалось разобрать ответ: %v", err)}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("client: не удалось разобрать data: %w", err)
	}
	return nil
}
