package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"interview-alchemist/internal/models"
)

// Client is a Go SDK for the interview API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout must come after WithHTTPClient when both are used
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a client authenticating with the given bearer token
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		// question generation and grading are single model calls that can be slow
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

type ListOptions struct {
	Page    int
	Filters map[string]string // industry, type, topic, role, difficulty, status
}

// AnswerSubmission is one answer and/or timer update for a session
type AnswerSubmission struct {
	QuestionID       string `json:"questionId,omitempty"`
	AnswerText       string `json:"answerText,omitempty"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Completed        bool   `json:"completed,omitempty"`
}

// CreateInterview returns the id of the new session
func (c *Client) CreateInterview(ctx context.Context, req models.CreateInterviewRequest) (string, error) {
	var out models.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/interviews", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	var out models.InterviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/interviews/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Interview, nil
}

// ResumeInterview fetches a session and the question it should continue from
func (c *Client) ResumeInterview(ctx context.Context, id string) (*models.Interview, *models.Question, error) {
	var out models.InterviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/interviews/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, nil, err
	}
	iv := out.Interview
	if iv == nil || out.ResumeIndex < 0 || out.ResumeIndex >= len(iv.Questions) {
		return iv, nil, nil
	}
	return iv, &iv.Questions[out.ResumeIndex], nil
}

func (c *Client) ListInterviews(ctx context.Context, opts ListOptions) (*models.ListResponse, error) {
	q := url.Values{}
	for k, v := range opts.Filters {
		q.Set(k, v)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	path := "/api/v1/interviews"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out models.ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetResult(ctx context.Context, id string) (*models.ResultSummary, error) {
	var out models.ResultResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/interviews/"+url.PathEscape(id)+"/result", nil, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, sessionID string, sub AnswerSubmission) error {
	var out models.UpdatedResponse
	return c.do(ctx, http.MethodPost, "/api/v1/interviews/"+url.PathEscape(sessionID)+"/answers", sub, &out)
}

// GetStats covers [start, end] inclusive; zero times fall back to the current month
func (c *Client) GetStats(ctx context.Context, start, end time.Time) (*models.InterviewStats, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		q.Set("end", end.Format("2006-01-02"))
	}
	path := "/api/v1/interviews/stats"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out models.StatsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// RateFeedback marks the grading of one answer as helpful or not
func (c *Client) RateFeedback(ctx context.Context, sessionID, questionID string, positive bool) error {
	path := fmt.Sprintf("/api/v1/interviews/%s/questions/%s/feedback", url.PathEscape(sessionID), url.PathEscape(questionID))
	return c.do(ctx, http.MethodPost, path, models.SubmitFeedbackRequest{IsPositive: positive}, nil)
}

func (c *Client) DeleteInterview(ctx context.Context, id string) error {
	var out models.DeletedResponse
	return c.do(ctx, http.MethodDelete, "/api/v1/interviews/"+url.PathEscape(id), nil, &out)
}

// do sends body as JSON and decodes a 2xx response into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var env models.ErrorEnvelope
		if json.Unmarshal(respBody, &env) == nil && env.Error.Message != "" {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
