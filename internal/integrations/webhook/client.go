package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	userAgent = "SMC-AgendaService-Webhook/1.0"

	// maxErrorBody сколько байт тела ответа попадает в ошибку
	maxErrorBody = 512
)

// Client клиент исходящих вебхуков
type Client struct {
	httpClient *http.Client
	validator  URLValidator
	log        Logger
}

// NewClient создает новый экземпляр клиента вебхуков
func NewClient(timeout time.Duration, validator URLValidator, log Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			// редиректы не выполняем: цель редиректа не проходила проверку политики
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		validator: validator,
		log:       log,
	}
}

// Send отправляет payload в формате JSON методом POST.
// Адрес проверяется политикой перед каждой отправкой.
func (c *Client) Send(ctx context.Context, targetURL string, eventType string, payload interface{}) error {
	if err := c.validator.Validate(targetURL); err != nil {
		c.log.Warn("Send: webhook url rejected: %v", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Webhook-Event", eventType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrDeliveryFailed, resp.StatusCode, string(respBody))
	}

	// дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	c.log.Info("Send: webhook event=%s delivered, status=%d", eventType, resp.StatusCode)
	return nil
}
