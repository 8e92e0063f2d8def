// Package client talks to a docstore server over its REST routes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/service"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docstore: %d %s", e.StatusCode, e.Message)
}

// Client implements service.Service against a remote server. Dates are sent
// in the codec's pattern, which must match the server's.
type Client struct {
	base  string
	codec *codec.Codec
	http  *http.Client
}

var _ service.Service = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, c *codec.Codec, opts ...Option) *Client {
	cl := &Client{
		base:  strings.TrimRight(baseURL, "/") + "/rest",
		codec: c,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(cl)
	}
	return cl
}

// Save uploads doc and returns the metadata the server stored. The server
// assigns the ID.
func (c *Client) Save(ctx context.Context, doc *document.Document) (document.Metadata, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", doc.FileName)
	if err != nil {
		return document.Metadata{}, err
	}
	if _, err := fw.Write(doc.Content); err != nil {
		return document.Metadata{}, err
	}
	if doc.AuthorName != "" {
		if err := mw.WriteField("author", doc.AuthorName); err != nil {
			return document.Metadata{}, err
		}
	}
	if doc.UploadDate != nil {
		if err := mw.WriteField("date", c.codec.FormatDate(*doc.UploadDate)); err != nil {
			return document.Metadata{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return document.Metadata{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", &body)
	if err != nil {
		return document.Metadata{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var meta document.Metadata
	if err := c.doJSON(req, &meta); err != nil {
		return document.Metadata{}, err
	}
	return meta, nil
}

func (c *Client) FindFileUploads(ctx context.Context, author *string, date *time.Time) ([]document.Metadata, error) {
	q := url.Values{}
	if author != nil {
		q.Set("author", *author)
	}
	if date != nil {
		q.Set("date", c.codec.FormatDate(*date))
	}
	u := c.base + "/files"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	out := make([]document.Metadata, 0)
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFileUploadFile returns (nil, nil) when the server has no such document.
func (c *Client) GetFileUploadFile(ctx context.Context, id string) ([]byte, error) {
	data, _, err := c.fetch(ctx, id)
	return data, err
}

// Load returns the content and file name of id. The REST routes do not
// expose author or date for a single document, so those stay empty.
func (c *Client) Load(ctx context.Context, id string) (*document.Document, error) {
	data, name, err := c.fetch(ctx, id)
	if err != nil || data == nil {
		return nil, err
	}
	return &document.Document{Metadata: document.Metadata{ID: id, FileName: name}, Content: data}, nil
}

func (c *Client) fetch(ctx context.Context, id string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/file/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", apiError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	var name string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return data, name, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
