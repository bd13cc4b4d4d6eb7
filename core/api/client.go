// Package api is the request/response surface of the remote interview
// service: session start, question fetch, speech synthesis, code review
// and session persistence.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// defaultTimeout bounds every request so a wedged service cannot hold a
// turn open indefinitely.
const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Session identifies a started interview session.
type Session struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// Question is one fetched interview question. Completed set with an empty
// question reports exhaustion of the question source.
type Question struct {
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	HasAudio       bool   `json:"has_audio"`
	Completed      bool   `json:"completed"`
}

// Review is the outcome of submitting code for remote review.
type Review struct {
	Feedback string `json:"feedback"`
	HasAudio bool   `json:"has_audio"`
}

// StartSession initializes a new interview session.
func (c *Client) StartSession(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "start interview session")
	defer span.End()

	var session Session
	if err := c.postJSON(ctx, "/api/start", nil, &session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", session.SessionID))

	return &session, nil
}

// NextQuestion fetches the next question for the session, or an
// exhaustion signal once the question source is drained.
func (c *Client) NextQuestion(ctx context.Context, sessionID string) (*Question, error) {
	ctx, span := tracer.Start(ctx, "fetch next question")
	defer span.End()

	var question Question
	if err := c.getJSON(ctx, "/api/question/"+sessionID, &question); err != nil {
		return nil, fmt.Errorf("failed to fetch question: %w", err)
	}
	span.SetAttributes(
		attribute.Int("question.number", question.QuestionNumber),
		attribute.Bool("question.completed", question.Completed),
	)

	return &question, nil
}

// Synthesize requests synthesized speech for text and returns the raw
// audio bytes in the session's canonical encoding.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request synthesis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis failed with status %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	span.SetAttributes(attribute.Int("audio.bytes", len(audio)))

	return audio, nil
}

// SubmitReview submits the session's code artifact for remote review.
func (c *Client) SubmitReview(ctx context.Context, sessionID, code string) (*Review, error) {
	ctx, span := tracer.Start(ctx, "submit code for review")
	defer span.End()

	body := struct {
		SessionID string `json:"session_id"`
		Code      string `json:"code"`
	}{SessionID: sessionID, Code: code}

	var review Review
	if err := c.postJSON(ctx, "/api/code_review", body, &review); err != nil {
		return nil, fmt.Errorf("failed to submit code for review: %w", err)
	}

	return &review, nil
}

// SegmentFeedback requests reviewer notes for a single code segment.
func (c *Client) SegmentFeedback(ctx context.Context, code, language string, segmentIndex, totalSegments int) (string, error) {
	ctx, span := tracer.Start(ctx, "fetch segment feedback")
	defer span.End()

	body := struct {
		Code          string `json:"code"`
		SegmentIndex  int    `json:"segment_index"`
		TotalSegments int    `json:"total_segments"`
		Language      string `json:"language"`
	}{Code: code, SegmentIndex: segmentIndex, TotalSegments: totalSegments, Language: language}

	var result struct {
		Feedback string `json:"feedback"`
	}
	if err := c.postJSON(ctx, "/api/segment_feedback", body, &result); err != nil {
		return "", fmt.Errorf("failed to fetch segment feedback: %w", err)
	}

	return result.Feedback, nil
}

// SaveSession asks the service to persist the session's record.
func (c *Client) SaveSession(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "save session record")
	defer span.End()

	var result struct {
		Filename string `json:"filename"`
		Status   string `json:"status"`
	}
	if err := c.postJSON(ctx, "/api/save/"+sessionID, nil, &result); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logger.InfoContext(ctx, "session record saved", "filename", result.Filename)

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
