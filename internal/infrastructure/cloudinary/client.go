package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront/backend/internal/usecase/upload"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Config carries the asset host credentials and client settings.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	// BaseURL overrides the hosted API endpoint, for tests.
	BaseURL string
	Timeout time.Duration
}

// Client uploads and destroys images on a Cloudinary-style asset host.
// Every upload is transcoded to WebP before leaving the process.
type Client struct {
	cfg     Config
	http    *http.Client
	nowFunc func() time.Time
}

// New constructs a client with a bounded request timeout.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		nowFunc: time.Now,
	}
}

// Ensure Client implements the asset store interface.
var _ upload.Store = (*Client)(nil)

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload transcodes the image to WebP and stores it remotely.
func (c *Client) Upload(ctx context.Context, data []byte) (upload.Asset, error) {
	encoded, err := toWebP(data)
	if err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}

	params := map[string]string{
		"folder":    c.cfg.Folder,
		"format":    "webp",
		"timestamp": strconv.FormatInt(c.nowFunc().UTC().Unix(), 10),
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range params {
		if err := form.WriteField(key, value); err != nil {
			return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
		}
	}
	if err := form.WriteField("api_key", c.cfg.APIKey); err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	if err := form.WriteField("signature", signParams(params, c.cfg.APISecret)); err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	part, err := form.CreateFormFile("file", "image.webp")
	if err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	if _, err := part.Write(encoded); err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	if err := form.Close(); err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return upload.Asset{}, fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return upload.Asset{}, fmt.Errorf("%w: decoding response: %v", upload.ErrUpload, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := parsed.Error.Message
		if message == "" {
			message = resp.Status
		}
		return upload.Asset{}, fmt.Errorf("%w: %s", upload.ErrUpload, message)
	}

	return upload.Asset{URL: parsed.SecureURL, PublicID: parsed.PublicID}, nil
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy removes a stored asset by its public identifier.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.nowFunc().UTC().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.cfg.APIKey)
	form.Set("signature", signParams(params, c.cfg.APISecret))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", upload.ErrUpload, err)
	}
	defer resp.Body.Close()

	var parsed destroyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: decoding response: %v", upload.ErrUpload, err)
	}

	switch parsed.Result {
	case "ok":
		return nil
	case "not found":
		return upload.ErrAssetNotFound
	default:
		return fmt.Errorf("%w: destroy returned %q", upload.ErrUpload, parsed.Result)
	}
}

// signParams produces the request signature: parameters sorted by key,
// joined as key=value pairs, with the API secret appended, SHA-1 hashed.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
