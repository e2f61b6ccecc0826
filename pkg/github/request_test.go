package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTyped},
		{in: "typed", want: FormatTyped},
		{in: "Object", want: FormatObject},
		{in: "array", want: FormatArray},
		{in: "string", want: FormatString},
		{in: "raw", want: FormatString},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Call(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"r","private":false}`))
	})
	mux.HandleFunc("/repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"bug"},{"name":"docs"}]`))
	})

	ctx := context.Background()

	t.Run("正常系: objectはmapに復元される", func(t *testing.T) {
		res, err := client.Call(ctx, "get", "repos/o/r", nil, nil, FormatObject)
		require.NoError(t, err)
		assert.Equal(t, "r", res.Object["name"])
		assert.Equal(t, false, res.Object["private"])
		assert.Equal(t, http.StatusOK, res.Response.StatusCode)
	})

	t.Run("正常系: arrayはスライスに復元される", func(t *testing.T) {
		res, err := client.Call(ctx, http.MethodGet, "repos/o/r/labels", nil, nil, FormatArray)
		require.NoError(t, err)
		require.Len(t, res.Array, 2)
		assert.Equal(t, "bug", res.Array[0].(map[string]interface{})["name"])
	})

	t.Run("正常系: stringは本文をそのまま返す", func(t *testing.T) {
		res, err := client.Call(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatString)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"r","private":false}`, res.Text)
	})

	t.Run("正常系: typedはDecodeで任意の型に復元できる", func(t *testing.T) {
		res, err := client.Call(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatTyped)
		require.NoError(t, err)

		repo := new(Repository)
		require.NoError(t, res.Decode(repo))
		assert.Equal(t, "r", *repo.Name)
	})

	t.Run("異常系: オブジェクトをarrayで要求すると形式不一致", func(t *testing.T) {
		_, err := client.Call(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatArray)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFormatMismatch))
	})

	t.Run("異常系: 未知の形式", func(t *testing.T) {
		_, err := client.Call(ctx, http.MethodGet, "repos/o/r", nil, nil, Format(42))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFormatMismatch))
	})
}

func TestClient_send_DestinationMismatch(t *testing.T) {
	client, mux := setup(t)

	var calls int32
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()
	m := map[string]interface{}{}

	_, err := client.send(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatString, &m)
	assert.True(t, errors.Is(err, ErrFormatMismatch))

	var s string
	_, err = client.send(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatArray, &s)
	assert.True(t, errors.Is(err, ErrFormatMismatch))

	_, err = client.send(ctx, http.MethodGet, "repos/o/r", nil, nil, FormatObject, &s)
	assert.True(t, errors.Is(err, ErrFormatMismatch))

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "形式不一致ではリクエストを送らない")
}

func TestClient_Methods(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/things", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "open", r.URL.Query().Get("state"))
			w.Write([]byte(`{"method":"GET"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			testJSONBody(t, r, `{"k":"v"}`)
			fmt.Fprintf(w, `{"method":%q}`, r.Method)
		}
	})

	ctx := context.Background()
	body := map[string]string{"k": "v"}

	var out map[string]string
	_, err := client.Get(ctx, "things", url.Values{"state": {"open"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "GET", out["method"])

	for _, call := range []struct {
		method string
		fn     func(context.Context, string, interface{}, interface{}) (*Response, error)
	}{
		{http.MethodPost, client.Post},
		{http.MethodPut, client.Put},
		{http.MethodPatch, client.Patch},
	} {
		out = nil
		_, err := call.fn(ctx, "things", body, &out)
		require.NoError(t, err)
		assert.Equal(t, call.method, out["method"])
	}

	resp, err := client.Delete(ctx, "things", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClient_Accepted(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/repos/o/r/hooks/1/deliveries/2/attempts", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodPost)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"queued":true}`))
	})

	res, err := client.Call(context.Background(), http.MethodPost, "repos/o/r/hooks/1/deliveries/2/attempts", nil, nil, FormatObject)
	require.NoError(t, err)
	assert.Equal(t, true, res.Object["queued"])
	assert.Equal(t, http.StatusAccepted, res.Response.StatusCode)
}

func TestClient_ErrorClassification(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/repos/o/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`))
	})
	mux.HandleFunc("/repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Label","field":"name","code":"already_exists"}]}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	ctx := context.Background()

	t.Run("異常系: 404はNotFound", func(t *testing.T) {
		_, err := client.Get(ctx, "repos/o/missing", nil, nil)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))

		var ghErr *GitHubError
		require.True(t, errors.As(err, &ghErr))
		assert.Equal(t, http.StatusNotFound, ghErr.StatusCode)
		assert.Equal(t, http.MethodGet, ghErr.Method)
		assert.Equal(t, "/repos/o/missing", ghErr.URL)
		assert.Equal(t, "https://docs.github.com/rest", ghErr.DocumentationURL)
	})

	t.Run("異常系: 422はValidationでフィールドエラーを保持する", func(t *testing.T) {
		_, err := client.Post(ctx, "repos/o/r/labels", map[string]string{"name": "bug"}, nil)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		var ghErr *GitHubError
		require.True(t, errors.As(err, &ghErr))
		require.Len(t, ghErr.Errors, 1)
		assert.Equal(t, "already_exists", ghErr.Errors[0].Code)
		assert.Contains(t, err.Error(), "Label.name already_exists")
	})

	t.Run("異常系: 401はAuthentication", func(t *testing.T) {
		_, err := client.Get(ctx, "user", nil, nil)
		require.Error(t, err)
		assert.True(t, IsAuthenticationError(err))
	})
}

func TestClient_Retry(t *testing.T) {
	fast := RetryStrategy{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   1,
	}

	t.Run("正常系: GETは5xxでリトライされる", func(t *testing.T) {
		client, mux := setup(t, WithRetryStrategy(fast))

		var calls int32
		mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"message":"Bad Gateway"}`))
				return
			}
			w.Write([]byte(`{"name":"r"}`))
		})

		repo := new(Repository)
		_, err := client.Get(context.Background(), "repos/o/r", nil, repo)
		require.NoError(t, err)
		assert.Equal(t, "r", *repo.Name)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("異常系: POSTはリトライされない", func(t *testing.T) {
		client, mux := setup(t, WithRetryStrategy(fast))

		var calls int32
		mux.HandleFunc("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"message":"Bad Gateway"}`))
		})

		_, err := client.Post(context.Background(), "repos/o/r/issues", map[string]string{"title": "t"}, nil)
		require.Error(t, err)

		var ghErr *GitHubError
		require.True(t, errors.As(err, &ghErr))
		assert.Equal(t, ErrorTypeServerError, ghErr.Type)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("異常系: 404はリトライされない", func(t *testing.T) {
		client, mux := setup(t, WithRetryStrategy(fast))

		var calls int32
		mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
		})

		_, err := client.Get(context.Background(), "repos/o/r", nil, nil)
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestAddQuery(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query interface{}
		want  string
	}{
		{name: "nil", path: "a", query: nil, want: "a"},
		{name: "nilポインタ", path: "a", query: (*ListOptions)(nil), want: "a"},
		{name: "url.Values", path: "a", query: url.Values{"x": {"1"}}, want: "a?x=1"},
		{name: "map", path: "a", query: map[string]string{"state": "all"}, want: "a?state=all"},
		{name: "構造体", path: "a", query: &ListOptions{Page: 2, PerPage: 50}, want: "a?page=2&per_page=50"},
		{name: "空の構造体", path: "a", query: &ListOptions{}, want: "a"},
		{name: "既存クエリに追加", path: "a?x=1", query: url.Values{"y": {"2"}}, want: "a?x=1&y=2"},
		{
			name:  "カンマ区切りのスライス",
			path:  "a",
			query: &IssueListOptions{Labels: []string{"bug", "help wanted"}},
			want:  "a?labels=bug%2Chelp+wanted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := addQuery(tt.path, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepoPath(t *testing.T) {
	p, err := repoPath("o", "r", "branches", "feature/x")
	require.NoError(t, err)
	assert.Equal(t, "repos/o/r/branches/feature%2Fx", p)

	_, err = repoPath("", "r")
	require.Error(t, err)
	assert.Equal(t, "GitHub API error [Validation]: owner is required", err.Error())

	_, err = repoPath("o", "")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestListAll(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		switch r.URL.Query().Get("page") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2&per_page=100>; rel="next"`, "http://"+r.Host+r.URL.Path))
			w.Write([]byte(`[{"name":"a"},{"name":"b"}]`))
		case "2":
			w.Write([]byte(`[{"name":"c"}]`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	labels, err := client.Labels.ListAll(context.Background(), "o", "r")
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, "c", labels[2].GetName())
}
