package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferencesManager(t *testing.T) {
	client, mux := setup(t)

	mux.HandleFunc("/repos/o/r/git/matching-refs/", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodGet)
		switch r.URL.Path {
		case "/repos/o/r/git/matching-refs/heads/feature":
			w.Write([]byte(`[{"ref":"refs/heads/feature/a"},{"ref":"refs/heads/feature/b"}]`))
		case "/repos/o/r/git/matching-refs/":
			w.Write([]byte(`[{"ref":"refs/heads/main"},{"ref":"refs/tags/v1"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	mux.HandleFunc("/repos/o/r/git/ref/heads/feature/a", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodGet)
		w.Write([]byte(`{"ref":"refs/heads/feature/a","object":{"type":"commit","sha":"aaa"}}`))
	})
	mux.HandleFunc("/repos/o/r/git/refs", func(w http.ResponseWriter, r *http.Request) {
		testMethod(t, r, http.MethodPost)
		testJSONBody(t, r, `{"ref":"refs/heads/new","sha":"bbb"}`)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ref":"refs/heads/new","object":{"sha":"bbb"}}`))
	})
	mux.HandleFunc("/repos/o/r/git/refs/heads/new", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			testJSONBody(t, r, `{"sha":"ccc","force":true}`)
			w.Write([]byte(`{"ref":"refs/heads/new","object":{"sha":"ccc"}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	rm := client.References

	refs, _, err := rm.List(ctx, "o", "r", "refs/heads/feature", nil)
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	refs, _, err = rm.List(ctx, "o", "r", "", nil)
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	ref, _, err := rm.Get(ctx, "o", "r", "heads/feature/a")
	require.NoError(t, err)
	assert.Equal(t, "aaa", *ref.Object.SHA)

	ref, _, err = rm.Create(ctx, "o", "r", "heads/new", "bbb")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/new", *ref.Ref)

	ref, _, err = rm.CreateBranch(ctx, "o", "r", "new", "bbb")
	require.NoError(t, err)
	assert.Equal(t, "bbb", *ref.Object.SHA)

	ref, _, err = rm.Update(ctx, "o", "r", "refs/heads/new", "ccc", true)
	require.NoError(t, err)
	assert.Equal(t, "ccc", *ref.Object.SHA)

	_, err = rm.Delete(ctx, "o", "r", "heads/new")
	require.NoError(t, err)
}

func TestReferencesManager_Validation(t *testing.T) {
	client, _ := setup(t)
	ctx := context.Background()

	_, _, err := client.References.Get(ctx, "o", "r", "refs/")
	assert.True(t, IsValidationError(err))

	_, _, err = client.References.Create(ctx, "o", "r", "heads/x", "")
	assert.True(t, IsValidationError(err))

	_, _, err = client.References.Update(ctx, "o", "r", "heads/x", "", false)
	assert.True(t, IsValidationError(err))
}

func TestTrimRef(t *testing.T) {
	assert.Equal(t, "heads/main", trimRef("refs/heads/main"))
	assert.Equal(t, "heads/main", trimRef("/heads/main/"))
	assert.Equal(t, []string{"tags", "v1.0"}, refSegments("refs/tags/v1.0"))
}
