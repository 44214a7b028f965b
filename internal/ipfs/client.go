// Package ipfs stores JSON documents through the HTTP RPC API of an IPFS node.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/chapool/wallet-agent/internal/util"
	"github.com/chapool/wallet-agent/internal/wallet/errs"
)

const (
	// DefaultAPIURL is the API address of a local Kubo node.
	DefaultAPIURL = "http://127.0.0.1:5001"
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 1 << 20
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNotJSON is returned when raw input is not a JSON document.
var ErrNotJSON = errors.New("input is not a JSON document")

// Config of the IPFS API client.
type Config struct {
	APIURL     string        `json:"apiUrl"`
	Timeout    time.Duration `json:"timeout"`
	HTTPClient *http.Client  `json:"-"`
}

// Client talks to the /api/v0 endpoints of an IPFS node.
type Client struct {
	apiURL string
	client *http.Client
}

// NewClient validates the API URL. An unusable URL is a ConfigurationError on IPFS_API_URL.
func NewClient(cfg Config) (*Client, error) {
	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		return nil, errs.NewMissingConfigError("IPFS_API_URL")
	}

	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, errs.NewConfigurationError("IPFS_API_URL", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errs.NewConfigurationError("IPFS_API_URL", errors.Errorf("%q is not an absolute URL", apiURL))
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: client,
	}, nil
}

// AddJSON serializes data, stores and pins it, and returns its CID.
func (c *Client) AddJSON(ctx context.Context, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal JSON")
	}

	return c.add(ctx, payload)
}

// AddRawJSON stores an already serialized JSON document and returns its CID.
// A leading UTF-8 byte order mark is dropped. Malformed input is rejected with
// ErrNotJSON before any request.
func (c *Client) AddRawJSON(ctx context.Context, payload []byte) (string, error) {
	payload, err := CheckJSON(payload)
	if err != nil {
		return "", err
	}

	return c.add(ctx, payload)
}

// CheckJSON returns payload without a leading UTF-8 byte order mark, or
// ErrNotJSON annotated with the detected content type when it is not valid JSON.
// Any JSON value is accepted, scalars included.
func CheckJSON(payload []byte) ([]byte, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)
	if !json.Valid(payload) {
		return nil, errors.Wrapf(ErrNotJSON, "detected %s", mimetype.Detect(payload).String())
	}
	return payload, nil
}

// Version returns the version reported by the node. It is used as readiness check.
func (c *Client) Version(ctx context.Context) (string, error) {
	raw, err := c.post(ctx, "version", "/api/v0/version", nil, "")
	if err != nil {
		return "", err
	}

	version := gjson.GetBytes(raw, "Version")
	if !version.Exists() {
		return "", errs.NewTransportError("ipfs_version", errors.New("no Version in response"))
	}

	return version.String(), nil
}

func (c *Client) add(ctx context.Context, payload []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "data.json")
	if err != nil {
		return "", errors.Wrap(err, "failed to build multipart body")
	}
	if _, err := part.Write(payload); err != nil {
		return "", errors.Wrap(err, "failed to write multipart payload")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close multipart body")
	}

	raw, err := c.post(ctx, "add", "/api/v0/add?pin=true&cid-version=1", &body, mw.FormDataContentType())
	if err != nil {
		return "", err
	}

	cid := lastHash(raw)
	if cid == "" {
		return "", errs.NewTransportError("ipfs_add", errors.New("empty cid in response"))
	}

	util.LogFromContext(ctx).Debug().
		Str("cid", cid).
		Int("size", len(payload)).
		Msg("JSON added to IPFS")

	return cid, nil
}

func (c *Client) post(ctx context.Context, op, path string, body io.Reader, contentType string) ([]byte, error) {
	op = "ipfs_" + op

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.NewTransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errs.NewTransportError(op, errors.Wrap(err, "failed to read response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if m := gjson.GetBytes(raw, "Message"); m.Exists() {
			msg = m.String()
		}
		return nil, errs.NewTransportError(op, errors.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	return raw, nil
}

// lastHash returns the Hash of the last object in an add response. The node
// streams one JSON object per line, the last one is the root.
func lastHash(raw []byte) string {
	var hash string
	gjson.ForEachLine(string(raw), func(line gjson.Result) bool {
		if h := line.Get("Hash"); h.Exists() && strings.TrimSpace(h.String()) != "" {
			hash = h.String()
		}
		return true
	})
	return hash
}
