// Package d2w is a client for the depth2water monitoring store HTTP API.
// It covers the capabilities the reconciliation engine consumes: cursor
// paginated record listing, single record creation and patching, station
// lookup by business id, and bulk CSV submission.
package d2w

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	Host         string
	Scheme       string
}

// Reads client credentials from the environment. Pair with godotenv.Load to
// source them from a .env file.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Username:     os.Getenv("D2W_USERNAME"),
		Password:     os.Getenv("D2W_PASSWORD"),
		ClientID:     os.Getenv("D2W_CLIENT_ID"),
		ClientSecret: os.Getenv("D2W_CLIENT_SECRET"),
		Host:         os.Getenv("D2W_HOST"),
		Scheme:       os.Getenv("D2W_SCHEME"),
	}
	if creds.Scheme == "" {
		creds.Scheme = "https"
	}
	if creds.Host == "" {
		return creds, errors.New("D2W_HOST is not set")
	}
	if creds.Username == "" || creds.Password == "" {
		return creds, errors.New("D2W_USERNAME and D2W_PASSWORD need to be set")
	}
	return creds, nil
}

type Client struct {
	creds  Credentials
	base   string
	client *http.Client
	token  string
}

func NewClient(creds Credentials) *Client {
	return &Client{
		creds:  creds,
		base:   creds.Scheme + "://" + creds.Host,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Performs the OAuth2 password grant and stores the access token for
// subsequent requests. A failure here is a run-level failure, nothing else
// can proceed without it.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"password"},
		"username":      {c.creds.Username},
		"password":      {c.creds.Password},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/o/token/", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = token.AccessToken
	return nil
}

// Issues an authorized JSON request and decodes the response into out when
// out is non-nil
func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		buf, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d, body: %s", method, rawURL, resp.StatusCode, string(buf))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// PostCSVFile submits a staged CSV as a bulk-create request. The field
// mapping travels alongside the file as ordinary form fields, telling the
// server how file columns map onto its own field names.
func (c *Client) PostCSVFile(ctx context.Context, path string, mapping map[string]any) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	for key, value := range mapping {
		if err := writer.WriteField(key, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/csv/", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("csv upload of '%s': status %d, body: %s", path, resp.StatusCode, string(body))
	}
	return nil
}
