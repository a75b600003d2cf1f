package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/client/models"
	"github.com/dmitrijs2005/imgbox/internal/common"
)

// HTTPClient is a Service over the server's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("server address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server address %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Register posts the registration as an urlencoded form body so the
// password never lands in a URL.
func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	form := url.Values{"name": {name}, "email": {email}, "password": {string(password)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var u models.User
	if err := c.do(req, http.StatusCreated, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user?id="+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := c.do(req, http.StatusOK, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users", nil)
	if err != nil {
		return nil, err
	}

	list := make([]*models.User, 0)
	if err := c.do(req, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UploadPhoto streams r as the "photo" field of a multipart body.
func (c *HTTPClient) UploadPhoto(ctx context.Context, filename string, r io.Reader) (*models.Photo, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("photo", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/photo", pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var p models.Photo
	if err := c.do(req, http.StatusOK, &p); err != nil {
		_ = pr.Close()
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, nil)
}

// do sends req, maps error statuses onto common sentinels and decodes a
// successful body into out when out is not nil.
func (c *HTTPClient) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func statusError(resp *http.Response) error {
	var d detailResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&d)
	if d.Detail == "" {
		d.Detail = resp.Status
	}

	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = common.ErrorValidation
	case http.StatusNotFound:
		kind = common.ErrorNotFound
	case http.StatusConflict:
		kind = common.ErrorConflict
	case http.StatusRequestEntityTooLarge:
		kind = common.ErrorFileTooLarge
	case http.StatusServiceUnavailable:
		kind = common.ErrorStoreUnavailable
	default:
		kind = common.ErrorInternal
	}
	return fmt.Errorf("%w: %s", kind, d.Detail)
}
