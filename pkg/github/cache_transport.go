package github

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
)

const cacheHeader = "X-From-Cache"

// CachedResponse is what a ResponseCache stores for one GET request.
// Link is kept because a 304 does not repeat the pagination header.
type CachedResponse struct {
	ETag         string `json:"etag"`
	LastModified string `json:"last_modified,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	Link         string `json:"link,omitempty"`
	Body         []byte `json:"body"`
}

// ResponseCache stores validated GET responses keyed by request identity.
// Implementations live in internal/cache (in-memory LRU and Redis).
type ResponseCache interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool)
	Set(ctx context.Context, key string, entry *CachedResponse)
	Delete(ctx context.Context, key string)
}

// cacheRoundTripper issues conditional GET requests. A 304 from GitHub does
// not count against the rate limit, so replaying the cached body saves quota.
type cacheRoundTripper struct {
	base   http.RoundTripper
	cache  ResponseCache
	logger Logger
}

// cacheKey identifies a request by method, URL, Accept and a hash of the
// credentials so two tokens never share an entry.
func cacheKey(req *http.Request) string {
	h := sha256.New()
	io.WriteString(h, req.Header.Get("Authorization"))
	auth := hex.EncodeToString(h.Sum(nil))[:16]
	return "GET " + req.URL.String() + " " + req.Header.Get("Accept") + " " + auth
}

func (rt *cacheRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if req.Method != http.MethodGet {
		resp, err := rt.base.RoundTrip(req)
		if err == nil && resp.StatusCode < 300 {
			// 同じURLのGETキャッシュを無効化する
			getReq := req.Clone(ctx)
			getReq.Method = http.MethodGet
			rt.cache.Delete(ctx, cacheKey(getReq))
		}
		return resp, err
	}

	key := cacheKey(req)
	entry, hit := rt.cache.Get(ctx, key)

	outReq := req
	if hit {
		outReq = req.Clone(ctx)
		if entry.ETag != "" {
			outReq.Header.Set("If-None-Match", entry.ETag)
		}
		if entry.LastModified != "" {
			outReq.Header.Set("If-Modified-Since", entry.LastModified)
		}
	}

	resp, err := rt.base.RoundTrip(outReq)
	if err != nil {
		return nil, err
	}

	if hit && resp.StatusCode == http.StatusNotModified {
		_ = resp.Body.Close()
		rt.logger.Debug("github_api_cache_hit", "url", req.URL.String())
		return cachedHTTPResponse(req, resp, entry), nil
	}

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	etag := resp.Header.Get("ETag")
	lastModified := resp.Header.Get("Last-Modified")
	if etag == "" && lastModified == "" {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	rt.cache.Set(ctx, key, &CachedResponse{
		ETag:         etag,
		LastModified: lastModified,
		ContentType:  resp.Header.Get("Content-Type"),
		Link:         resp.Header.Get("Link"),
		Body:         body,
	})

	return resp, nil
}

// cachedHTTPResponse rebuilds a 200 response from a cache entry, keeping the
// fresh headers (rate limit) of the 304. Pagination links come from the entry
// unless the 304 carries its own.
func cachedHTTPResponse(req *http.Request, notModified *http.Response, entry *CachedResponse) *http.Response {
	header := notModified.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if entry.ContentType != "" {
		header.Set("Content-Type", entry.ContentType)
	}
	if entry.Link != "" && header.Get("Link") == "" {
		header.Set("Link", entry.Link)
	}
	header.Set("Content-Length", strconv.Itoa(len(entry.Body)))
	header.Set(cacheHeader, "1")

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         notModified.Proto,
		ProtoMajor:    notModified.ProtoMajor,
		ProtoMinor:    notModified.ProtoMinor,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}
}
