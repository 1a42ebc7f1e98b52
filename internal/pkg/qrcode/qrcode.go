package qrcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

const (
	DefaultBaseURL = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultSize    = "200x200"

	payloadPrefix = "USER_REWARD_ID::"
	maxImageBytes = 1 << 20
)

// Payload is the string encoded in a voucher's QR image.
func Payload(userRewardID string) string {
	return payloadPrefix + userRewardID
}

// ParsePayload extracts the voucher id from a scanned payload.
func ParsePayload(payload string) (string, bool) {
	id, ok := strings.CutPrefix(payload, payloadPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

type Generator struct {
	baseURL string
	client  heimdall.Doer
}

func NewGenerator(baseURL string, timeout time.Duration) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	backoff := heimdall.NewConstantBackoff(200*time.Millisecond, 100*time.Millisecond)
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		httpclient.WithRetryCount(2),
	)
	return &Generator{baseURL, client}
}

// ImageURL points the browser at the external image endpoint.
func (g *Generator) ImageURL(userRewardID string) string {
	return fmt.Sprintf("%s?size=%s&data=%s", g.baseURL, DefaultSize, url.QueryEscape(Payload(userRewardID)))
}

// Fetch downloads the rendered image so it can be served from our own origin.
func (g *Generator) Fetch(ctx context.Context, userRewardID string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.ImageURL(userRewardID), nil)
	if err != nil {
		return nil, "", err
	}

	res, err := g.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("qr endpoint returned %d", res.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxImageBytes))
	if err != nil {
		return nil, "", err
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(b)
	}
	return b, contentType, nil
}
