package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// Client talks to a running portfolio bot over its HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: util.LoggerOrNop(logger),
	}
}

// Ask posts one query and returns the bot reply.
func (c *Client) Ask(ctx context.Context, query string) (*domain.ChatReply, error) {
	var reply domain.ChatReply
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat", domain.ChatRequest{Query: query}, &reply); err != nil {
		c.logger.Error("Failed to ask", zap.Error(err))
		return nil, err
	}
	return &reply, nil
}

func (c *Client) Intro(ctx context.Context) (*domain.IntroPayload, error) {
	var payload domain.IntroPayload
	if err := c.doRequest(ctx, http.MethodGet, "/api/chat/intro", nil, &payload); err != nil {
		c.logger.Error("Failed to get intro", zap.Error(err))
		return nil, err
	}
	return &payload, nil
}

func (c *Client) Ping(ctx context.Context) bool {
	return c.doRequest(ctx, http.MethodGet, "/health", nil, nil) == nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", http.StatusBadRequest, map[string]any{
				"url": url,
			}).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", http.StatusInternalServerError, map[string]any{
			"url": url,
		}).WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", http.StatusBadGateway, map[string]any{
			"url": url,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := fmt.Sprintf("portfolio bot API error: %s", resp.Status)
		var payload domain.ErrorPayload
		if json.Unmarshal(bodyBytes, &payload) == nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return errors.NewAPIError(message, resp.StatusCode, map[string]any{
			"url":  url,
			"body": string(bodyBytes),
		})
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return errors.NewAPIError("failed to decode response", http.StatusInternalServerError, map[string]any{
				"url": url,
			}).WithCause(err)
		}
	}

	return nil
}
