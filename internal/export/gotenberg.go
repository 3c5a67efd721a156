package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrPDFDisabled is returned when no Gotenberg endpoint is configured.
var ErrPDFDisabled = errors.New("export: pdf rendering is not configured")

// PDFClient converts HTML into PDF through a Gotenberg instance.
type PDFClient struct {
	baseURL    string
	httpClient *http.Client
	landscape  bool
}

// NewPDFClient constructs a client. An empty baseURL yields a client whose
// calls fail with ErrPDFDisabled.
func NewPDFClient(baseURL string, timeout time.Duration) *PDFClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PDFClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		landscape:  true,
	}
}

// Enabled reports whether an endpoint is configured.
func (c *PDFClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Ping checks the Gotenberg health endpoint.
func (c *PDFClient) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrPDFDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// RenderHTML uploads html as index.html and returns the converted PDF.
func (c *PDFClient) RenderHTML(ctx context.Context, html []byte) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrPDFDisabled
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(html); err != nil {
		return nil, err
	}
	if c.landscape {
		if err := writer.WriteField("landscape", "true"); err != nil {
			return nil, err
		}
	}
	if err := writer.WriteField("printBackground", "true"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("render failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return io.ReadAll(resp.Body)
}
