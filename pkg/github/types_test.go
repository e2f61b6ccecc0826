package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RepoRef
		wantErr bool
	}{
		{name: "owner/name", input: "douhashi/ghkit", want: RepoRef{Owner: "douhashi", Name: "ghkit"}},
		{name: "https URL", input: "https://github.com/douhashi/ghkit.git", want: RepoRef{Owner: "douhashi", Name: "ghkit"}},
		{name: "ssh URL", input: "git@github.com:douhashi/ghkit.git", want: RepoRef{Owner: "douhashi", Name: "ghkit"}},
		{name: "末尾スラッシュ", input: "douhashi/ghkit/", want: RepoRef{Owner: "douhashi", Name: "ghkit"}},
		{name: "名前なし", input: "douhashi", wantErr: true},
		{name: "階層が深い", input: "a/b/c", wantErr: true},
		{name: "空", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepo(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.String())
		})
	}
}

func TestRepository_OwnerAndName(t *testing.T) {
	var nilRepo *Repository
	owner, name := nilRepo.OwnerAndName()
	assert.Empty(t, owner)
	assert.Empty(t, name)

	owner, name = (&Repository{FullName: String("a/b")}).OwnerAndName()
	assert.Equal(t, "a", owner)
	assert.Equal(t, "b", name)
}

func TestGetters_NilSafe(t *testing.T) {
	var (
		u *User
		b *Branch
		l *Label
		m *Milestone
		h *Hook
		i *Issue
		r *RateLimit
	)
	assert.Empty(t, u.GetLogin())
	assert.Empty(t, b.GetName())
	assert.Empty(t, l.GetName())
	assert.Zero(t, m.GetNumber())
	assert.Zero(t, h.GetID())
	assert.Zero(t, i.GetNumber())
	assert.False(t, i.HasLabel("bug"))
	assert.True(t, r.ResetTime().IsZero())
}

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, "x", *String("x"))
	assert.Equal(t, 3, *Int(3))
	assert.Equal(t, int64(4), *Int64(4))
	assert.True(t, *Bool(true))
}
