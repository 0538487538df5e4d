// Package vector is the client for the external embedding service that
// turns a preview image into a numeric vector. The client is an explicit,
// injected object constructed by the caller; there is no lazily
// initialized global model handle.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AOShei/procreate-meta/pkg/model"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	// BaseURL of the inference service, e.g. "http://127.0.0.1:8484".
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		hc:      hc,
		log:     log,
	}
}

type embedResponse struct {
	Vector []float64 `json:"vector"`
}

// Embed posts the image at path to the inference service and returns its
// normalized embedding.
func (c *Client) Embed(ctx context.Context, imagePath string) (*model.Embedding, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("vector: read image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vector: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType(imagePath))

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector: embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("vector: embedding service returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("vector: decode response: %w", err)
	}
	if len(decoded.Vector) == 0 {
		return nil, fmt.Errorf("vector: embedding service returned an empty vector")
	}

	c.log.Debug("embedded image",
		zap.String("path", imagePath),
		zap.Int("dimensions", len(decoded.Vector)),
		zap.Duration("elapsed", time.Since(start)))

	return &model.Embedding{
		Vector:     decoded.Vector,
		SourcePath: imagePath,
		Dimensions: len(decoded.Vector),
	}, nil
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
