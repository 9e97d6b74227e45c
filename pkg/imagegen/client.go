// Package imagegen harici görsel üretim servisine giden HTTP client.
// Servis opak bir collaborator'dır: prompt'u URL path'inde alır, görseli
// byte olarak döner.
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultWidth  = 1024
	defaultHeight = 1024
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate prompt'tan görsel üretir; görsel byte'larını ve content type'ı
// döner. Stil prompt'a öne eklenir, servis ayrı stil parametresi bilmez.
func (c *Client) Generate(ctx context.Context, prompt, style string) ([]byte, string, error) {
	full := prompt
	if style != "" {
		full = style + " tattoo design, " + prompt
	}

	endpoint := fmt.Sprintf("%s/prompt/%s", c.baseURL, url.PathEscape(full))
	q := url.Values{}
	q.Set("width", strconv.Itoa(defaultWidth))
	q.Set("height", strconv.Itoa(defaultHeight))
	q.Set("nologo", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("image generation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read generated image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image generation returned an empty body")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}
