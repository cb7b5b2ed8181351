package usersapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/domain/interfaces"
)

// ErrUnexpectedStatus is returned when the helper API answers with an unexpected code
var ErrUnexpectedStatus = errors.New("unexpected status from users API")

// Client talks to the helper API that serves seed users
type Client struct {
	baseURL string
	client  *http.Client
	logger  logrus.FieldLogger
	rand    *rand.Rand
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithRand makes sampling deterministic
func WithRand(r *rand.Rand) Option {
	return func(cl *Client) { cl.rand = r }
}

// NewClient - creates new users API client
func NewClient(baseURL string, timeout time.Duration, logger logrus.FieldLogger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithField("component", "UsersAPI"),
		rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping - checks the API is up
func (c *Client) Ping(ctx context.Context) error {
	var msg struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, http.StatusOK, &msg); err != nil {
		return err
	}
	c.logger.Debugf("users API answered: %s", msg.Message)
	return nil
}

// Users - returns every seed user
func (c *Client) Users(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, http.StatusOK, &users); err != nil {
		return nil, err
	}
	c.logger.Infof("Fetched %d users", len(users))
	return users, nil
}

// Sample - returns k users picked at random, with replacement
func (c *Client) Sample(ctx context.Context, k int) ([]entities.User, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []entities.User{}, nil
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("failed to sample %d users: users API returned none", k)
	}

	sample := make([]entities.User, k)
	for i := range sample {
		sample[i] = users[c.rand.IntN(len(users))]
	}
	return sample, nil
}

// AddUser - stores a new seed user
func (c *Client) AddUser(ctx context.Context, user entities.User) error {
	return c.do(ctx, http.MethodPost, "/add_user", user, http.StatusCreated, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to perform %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s - %s - %s", ErrUnexpectedStatus, method, path, resp.Status, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Ensure Client implements UserDirectory interface
var _ interfaces.UserDirectory = (*Client)(nil)
