// Package moviesapi is the client for the remote movie API.  It exposes the
// six endpoints the console consumes and reports failures as either
// ErrTransport (nothing came back) or *StatusError (the API said no).
package moviesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/movie-console/internal/model"
)

// Client talks to the movie API rooted at BaseURL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client.  A zero timeout means requests never time out,
// which is how the browser client behaved.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type listResp struct {
	Movies []model.Movie `json:"movies"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string `json:"token"`
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListMovies fetches the full collection (GET /movies/getmovie).
func (c *Client) ListMovies(ctx context.Context) ([]model.Movie, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/movies/getmovie", "", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: "list movies", Code: resp.StatusCode, Msg: "Failed to fetch movies"}
	}
	var out listResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &StatusError{Op: "list movies", Code: resp.StatusCode, Msg: "malformed movie list: " + err.Error()}
	}
	if out.Movies == nil {
		out.Movies = []model.Movie{}
	}
	return out.Movies, nil
}

// AddMovie submits a new record as multipart form data
// (POST /movies/addmovie).  Any 2xx status is success; the body is ignored.
func (c *Client) AddMovie(ctx context.Context, token string, d model.NewMovieDraft, img *model.CoverImage) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := []struct{ k, v string }{
		{"name", d.Name},
		{"director", d.Director},
		{"rating", strconv.FormatFloat(d.Rating, 'f', -1, 64)},
		{"description", d.Description},
		{"releaseDate", d.ReleaseDate},
		{"duration", strconv.Itoa(d.Duration)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.k, f.v); err != nil {
			return fmt.Errorf("add movie: write %s: %w", f.k, err)
		}
	}
	if !img.Empty() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="coverImage"; filename=%q`, img.Filename))
		ct := img.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("add movie: create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return fmt.Errorf("add movie: write image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("add movie: close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/movies/addmovie", token, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.expect(req, "add movie", func(code int) bool { return code >= 200 && code <= 299 })
}

// UpdateMovie replaces the editable fields of the record named name
// (PUT /movies/updatemovie/{name}).  Only 200 counts as success.
func (c *Client) UpdateMovie(ctx context.Context, token, name string, d model.EditDraft) error {
	buf, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("update movie: encode: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/movies/updatemovie/"+url.PathEscape(name), token, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.expect(req, "update movie", func(code int) bool { return code == http.StatusOK })
}

// DeleteMovie removes the record(s) named name
// (DELETE /movies/deletemovie/{name}).  Only 200 counts as success.
func (c *Client) DeleteMovie(ctx context.Context, token, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/movies/deletemovie/"+url.PathEscape(name), token, nil)
	if err != nil {
		return err
	}
	return c.expect(req, "delete movie", func(code int) bool { return code == http.StatusOK })
}

// Login exchanges credentials for a session token (POST /users/login).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	buf, err := json.Marshal(loginReq{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("login: encode: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/login", "", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Op: "login", Code: resp.StatusCode}
	}
	var out loginResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Token == "" {
		return "", &StatusError{Op: "login", Code: resp.StatusCode, Msg: "login: response carried no token"}
	}
	return out.Token, nil
}

// Signup registers a new account (POST /users/signup).  Any 2xx is success.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	buf, err := json.Marshal(signupReq{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("signup: encode: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/signup", "", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.expect(req, "signup", func(code int) bool { return code >= 200 && code <= 299 })
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// expect runs req and maps a status rejected by ok to a StatusError.  The
// body is drained so the connection can be reused.
func (c *Client) expect(req *http.Request, op string, ok func(int) bool) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if !ok(resp.StatusCode) {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	return nil
}
