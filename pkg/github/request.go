package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	gh "github.com/google/go-github/v50/github"
	"github.com/google/go-querystring/query"
)

// Format はレスポンスの返却形式
type Format int

const (
	// FormatTyped decodes the body into a typed record.
	FormatTyped Format = iota
	// FormatObject decodes the body into map[string]interface{}.
	FormatObject
	// FormatArray decodes the body into []interface{}.
	FormatArray
	// FormatString returns the body text unparsed.
	FormatString
)

func (f Format) String() string {
	switch f {
	case FormatTyped:
		return "typed"
	case FormatObject:
		return "object"
	case FormatArray:
		return "array"
	case FormatString:
		return "string"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name. "raw" is accepted as an alias of "string".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "typed":
		return FormatTyped, nil
	case "object":
		return FormatObject, nil
	case "array":
		return FormatArray, nil
	case "string", "raw":
		return FormatString, nil
	default:
		return FormatTyped, fmt.Errorf("unknown format: %s", s)
	}
}

// Response wraps go-github's response, which carries pagination and rate data.
type Response struct {
	*gh.Response
}

func newResponse(r *gh.Response) *Response {
	if r == nil {
		return nil
	}
	return &Response{Response: r}
}

// Result is the outcome of an untyped Call. Exactly one of Raw, Object,
// Array or Text is populated, according to Format.
type Result struct {
	Format   Format
	Raw      json.RawMessage
	Object   map[string]interface{}
	Array    []interface{}
	Text     string
	Response *Response
}

// Decode re-decodes the held body into v.
func (r *Result) Decode(v interface{}) error {
	var data []byte
	switch r.Format {
	case FormatTyped:
		data = r.Raw
	case FormatString:
		data = []byte(r.Text)
	case FormatObject:
		b, err := json.Marshal(r.Object)
		if err != nil {
			return err
		}
		data = b
	case FormatArray:
		b, err := json.Marshal(r.Array)
		if err != nil {
			return err
		}
		data = b
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Get issues a GET request and decodes the response into v.
func (c *Client) Get(ctx context.Context, path string, query interface{}, v interface{}) (*Response, error) {
	return c.send(ctx, http.MethodGet, path, query, nil, FormatTyped, v)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, v interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPost, path, nil, body, FormatTyped, v)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, v interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPut, path, nil, body, FormatTyped, v)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, v interface{}) (*Response, error) {
	return c.send(ctx, http.MethodPatch, path, nil, body, FormatTyped, v)
}

// Delete issues a DELETE request. Some endpoints take a body (e.g. removing
// status check contexts); pass nil otherwise.
func (c *Client) Delete(ctx context.Context, path string, body interface{}, v interface{}) (*Response, error) {
	return c.send(ctx, http.MethodDelete, path, nil, body, FormatTyped, v)
}

// Call issues an arbitrary request and returns the body in the requested format.
func (c *Client) Call(ctx context.Context, method, path string, query, body interface{}, format Format) (*Result, error) {
	res := &Result{Format: format}

	var v interface{}
	switch format {
	case FormatTyped:
		v = &res.Raw
	case FormatObject:
		v = &res.Object
	case FormatArray:
		v = &res.Array
	case FormatString:
		v = &res.Text
	default:
		return nil, fmt.Errorf("%w: unknown format %s", ErrFormatMismatch, format)
	}

	resp, err := c.send(ctx, strings.ToUpper(method), path, query, body, format, v)
	res.Response = resp
	if err != nil {
		return res, err
	}
	return res, nil
}

// send はすべてのリクエストが通る唯一の経路
// パスにクエリを付与し、リクエストを組み立て、形式に応じてレスポンスを復元する
func (c *Client) send(ctx context.Context, method, path string, query, body interface{}, format Format, v interface{}) (*Response, error) {
	u, err := addQuery(path, query)
	if err != nil {
		return nil, err
	}

	strategy := c.retry
	if !isIdempotent(method) {
		strategy = NoRetry()
	}

	var resp *Response
	err = RetryWithErrorStrategy(ctx, strategy, func() error {
		req, err := c.github.NewRequest(method, u, body)
		if err != nil {
			return err
		}
		r, err := c.dispatch(ctx, req, format, v)
		resp = r
		return ClassifyError(err)
	})
	if err != nil {
		c.logger.Warn("github_api_request_failed",
			"method", method,
			"path", path,
			"error", err.Error(),
		)
		return resp, err
	}

	return resp, nil
}

// dispatch executes the request and decodes the body according to format.
func (c *Client) dispatch(ctx context.Context, req *http.Request, format Format, v interface{}) (*Response, error) {
	switch format {
	case FormatTyped:
		r, err := c.do(ctx, req, v)
		return newResponse(r), wrapDecodeError(err, format)

	case FormatString:
		p, ok := v.(*string)
		if !ok && v != nil {
			return nil, fmt.Errorf("%w: %s requires *string, got %T", ErrFormatMismatch, format, v)
		}
		var buf bytes.Buffer
		r, err := c.do(ctx, req, &buf)
		if err == nil && p != nil {
			*p = buf.String()
		}
		return newResponse(r), err

	case FormatObject:
		p, ok := v.(*map[string]interface{})
		if !ok && v != nil {
			return nil, fmt.Errorf("%w: %s requires *map[string]interface{}, got %T", ErrFormatMismatch, format, v)
		}
		var m map[string]interface{}
		r, err := c.do(ctx, req, &m)
		if err == nil && p != nil {
			*p = m
		}
		return newResponse(r), wrapDecodeError(err, format)

	case FormatArray:
		p, ok := v.(*[]interface{})
		if !ok && v != nil {
			return nil, fmt.Errorf("%w: %s requires *[]interface{}, got %T", ErrFormatMismatch, format, v)
		}
		var a []interface{}
		r, err := c.do(ctx, req, &a)
		if err == nil && p != nil {
			*p = a
		}
		return newResponse(r), wrapDecodeError(err, format)

	default:
		return nil, fmt.Errorf("%w: unknown format %s", ErrFormatMismatch, format)
	}
}

// do runs go-github's Do. A 202 Accepted is reported by go-github as an
// *AcceptedError; here it is a success and its body is decoded into v.
func (c *Client) do(ctx context.Context, req *http.Request, v interface{}) (*gh.Response, error) {
	r, err := c.github.Do(ctx, req, v)

	var accepted *gh.AcceptedError
	if !errors.As(err, &accepted) {
		return r, err
	}
	if len(accepted.Raw) == 0 || v == nil {
		return r, nil
	}
	if w, ok := v.(io.Writer); ok {
		_, err = w.Write(accepted.Raw)
		return r, err
	}
	return r, json.Unmarshal(accepted.Raw, v)
}

// wrapDecodeError marks a JSON shape mismatch (e.g. an object body requested
// as an array) as ErrFormatMismatch.
func wrapDecodeError(err error, format Format) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: body is not a JSON %s: %v", ErrFormatMismatch, format, err)
	}
	return err
}

// addQuery encodes query (url.Values, a struct with `url` tags, or nil) onto path.
func addQuery(path string, q interface{}) (string, error) {
	if q == nil {
		return path, nil
	}

	var values url.Values
	switch t := q.(type) {
	case url.Values:
		values = t
	case map[string]string:
		values = url.Values{}
		for k, v := range t {
			values.Set(k, v)
		}
	default:
		rv := reflect.ValueOf(q)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return path, nil
		}
		var err error
		values, err = query.Values(q)
		if err != nil {
			return "", fmt.Errorf("failed to encode query: %w", err)
		}
	}

	if len(values) == 0 {
		return path, nil
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + values.Encode(), nil
}

// buildPath joins path segments, escaping each one.
func buildPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// repoPath returns "repos/{owner}/{repo}/..." after validating owner and repo.
func repoPath(owner, repo string, rest ...string) (string, error) {
	if owner == "" {
		return "", requiredArg("owner")
	}
	if repo == "" {
		return "", requiredArg("repo")
	}
	return buildPath(append([]string{"repos", owner, repo}, rest...)...), nil
}

// listAll walks every page of a list endpoint.
func listAll[T any](ctx context.Context, fetch func(page int) ([]T, *Response, error)) ([]T, error) {
	var all []T
	page := 0
	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page = resp.NextPage
	}
	return all, nil
}
