// Package client is a Go client for the course eligibility API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/course-eligibility/internal/model"
)

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse means the server answered with a body that is not
// the expected JSON object.
var ErrMalformedResponse = errors.New("malformed response")

// Client calls the eligibility API.
//
// Business failures ("Invalid Register Number", "not eligible", ...) are not
// errors: they come back as a response whose Status is not "success", whatever
// the HTTP status code. An error means there was no usable answer at all.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new eligibility API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// StudentInfo looks up the student behind a register number.
func (c *Client) StudentInfo(ctx context.Context, registerNumber string) (*model.StudentInfoResponse, error) {
	var result model.StudentInfoResponse
	req := model.StudentInfoRequest{RegisterNumber: registerNumber}
	if err := c.post(ctx, "/get_student_info", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckEligibility asks whether the student may take courseTitle online.
func (c *Client) CheckEligibility(ctx context.Context, registerNumber, courseTitle string) (*model.EligibilityResponse, error) {
	var result model.EligibilityResponse
	req := model.EligibilityRequest{RegisterNumber: registerNumber, CourseTitle: courseTitle}
	if err := c.post(ctx, "/check_eligibility", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CourseSuggestions lists online courses whose title contains partialTitle.
func (c *Client) CourseSuggestions(ctx context.Context, registerNumber, partialTitle string) (*model.SuggestionsResponse, error) {
	var result model.SuggestionsResponse
	req := model.SuggestionsRequest{RegisterNumber: registerNumber, PartialCourseTitle: partialTitle}
	if err := c.post(ctx, "/get_course_suggestions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// post sends body as JSON and decodes the answer into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	status, resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%w: %s returned HTTP %d: %v", ErrMalformedResponse, path, status, err)
	}
	return nil
}

// doRequest performs the round trip. Unlike most clients it does not turn
// 4xx/5xx into errors: the API puts business answers in error statuses.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
