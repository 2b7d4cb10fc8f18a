package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"bloglytics/internal/api"
	"bloglytics/internal/core"
	"bloglytics/internal/moderation"
	"bloglytics/pkg/async"
)

type fakeUserRepo struct {
	users map[string]core.UserModel
}

func (f *fakeUserRepo) Get(_ context.Context, id string) (core.UserModel, error) {
	user, ok := f.users[id]
	if !ok {
		return core.UserModel{}, core.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) SetBlocked(_ context.Context, id string, blocked bool) (core.UserModel, error) {
	user, ok := f.users[id]
	if !ok {
		return core.UserModel{}, core.ErrNotFound
	}
	user.Blocked = blocked
	f.users[id] = user
	return user, nil
}

// fakeEngine returns canned values, or err when set.
type fakeEngine struct {
	err error

	comment   core.CommentModel
	tree      []core.CommentNode
	feed      []core.CommentModel
	lastActor core.Actor
}

func (f *fakeEngine) Create(_ context.Context, actor core.Actor, postID, content string, parentID *string) (core.CommentModel, error) {
	f.lastActor = actor
	if f.err != nil {
		return core.CommentModel{}, f.err
	}
	return core.CommentModel{ID: "c-1", PostID: postID, AuthorID: actor.ID, ParentID: parentID, Content: content}, nil
}

func (f *fakeEngine) Edit(_ context.Context, actor core.Actor, commentID, content string) (core.CommentModel, error) {
	f.lastActor = actor
	if f.err != nil {
		return core.CommentModel{}, f.err
	}
	return core.CommentModel{ID: commentID, AuthorID: actor.ID, Content: content}, nil
}

func (f *fakeEngine) Delete(_ context.Context, actor core.Actor, _ string) error {
	f.lastActor = actor
	return f.err
}

func (f *fakeEngine) ToggleLike(_ context.Context, actor core.Actor, commentID string) (core.CommentModel, error) {
	f.lastActor = actor
	if f.err != nil {
		return core.CommentModel{}, f.err
	}
	comment := f.comment
	comment.ID = commentID
	return comment, nil
}

func (f *fakeEngine) ListForPost(_ context.Context, _ string) ([]core.CommentNode, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tree, nil
}

func (f *fakeEngine) AuthoredFeed(ctx context.Context, actor core.Actor) <-chan async.Result[core.CommentModel] {
	f.lastActor = actor
	return async.Generator(ctx, func(yield async.Yielder[core.CommentModel]) error {
		if f.err != nil {
			return f.err
		}
		for _, comment := range f.feed {
			if !yield(comment) {
				return nil
			}
		}
		return nil
	})
}

type fakeAggregator struct {
	err error

	page     core.UserPage
	platform core.PlatformStats
	user     core.UserModel
	stats    core.UserStats

	lastParams core.ListParams
}

func (f *fakeAggregator) UserList(_ context.Context, params core.ListParams) (core.UserPage, error) {
	f.lastParams = params
	return f.page, f.err
}

func (f *fakeAggregator) Platform(_ context.Context) (core.PlatformStats, error) {
	return f.platform, f.err
}

func (f *fakeAggregator) UserStats(_ context.Context, _ string) (core.UserModel, core.UserStats, error) {
	return f.user, f.stats, f.err
}

type fixture struct {
	server     *httptest.Server
	engine     *fakeEngine
	aggregator *fakeAggregator
	users      *fakeUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &fakeUserRepo{users: map[string]core.UserModel{
		"admin-1":   {ID: "admin-1", FirstName: "Ada", Admin: true},
		"user-1":    {ID: "user-1", FirstName: "Bea"},
		"blocked-1": {ID: "blocked-1", FirstName: "Cal", Blocked: true},
	}}

	engine := &fakeEngine{}
	aggregator := &fakeAggregator{}

	gate := &api.Gate{Logger: slog.Default(), Users: users}
	require.NoError(t, gate.Init(t.Context()))

	mod := &moderation.Service{Logger: slog.Default(), Users: users}
	require.NoError(t, mod.Init(t.Context()))

	backend := &api.Backend{
		Logger:     slog.Default(),
		Comments:   engine,
		Stats:      aggregator,
		Moderation: mod,
	}
	require.NoError(t, backend.Init(t.Context()))

	r := chi.NewMux()
	backend.Mount(r, gate)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &fixture{server: server, engine: engine, aggregator: aggregator, users: users}
}

func (f *fixture) do(t *testing.T, method, path, userID string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, payload
}

func TestGate(t *testing.T) {
	t.Parallel()

	t.Run("missing identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodPost, "/api/v1/posts/p1/comments", "", map[string]string{"content": "hi"})
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("unknown identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodPost, "/api/v1/posts/p1/comments", "ghost", map[string]string{"content": "hi"})
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("blocked account", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodPost, "/api/v1/posts/p1/comments", "blocked-1", map[string]string{"content": "hi"})
		require.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("admin routes refuse non-admins", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodGet, "/api/v1/admin/stats", "user-1", nil)
		require.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("listing a post's comments needs no identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodGet, "/api/v1/posts/p1/comments", "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
	})
}

func TestBackend_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, payload := f.do(t, http.MethodPost, "/api/v1/posts/p1/comments", "user-1", map[string]string{"content": "hello"})
		require.Equal(t, http.StatusCreated, res.StatusCode)

		var comment api.Comment
		require.NoError(t, json.Unmarshal(payload, &comment))
		require.Equal(t, "p1", comment.PostID)
		require.Equal(t, "user-1", comment.UserID)
		require.Equal(t, "hello", comment.Content)

		require.Equal(t, "user-1", f.engine.lastActor.ID)
		require.False(t, f.engine.lastActor.Admin)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/v1/posts/p1/comments", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		req.Header.Set("X-User-ID", "user-1")

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestBackend_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: empty", core.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: comment", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not yours", core.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: too deep", core.ErrConflict), http.StatusConflict},
		{fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d", tc.status), func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.engine.err = tc.err

			res, payload := f.do(t, http.MethodPost, "/api/v1/posts/p1/comments", "user-1", map[string]string{"content": "x"})
			require.Equal(t, tc.status, res.StatusCode)

			if tc.status == http.StatusInternalServerError {
				var msg map[string]string
				require.NoError(t, json.Unmarshal(payload, &msg))
				require.Equal(t, "Internal Server Error", msg["message"])
			}
		})
	}
}

func TestBackend_AuthoredFeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.engine.feed = []core.CommentModel{
		{ID: "c-2", Content: "newer"},
		{ID: "c-1", Content: "older"},
	}

	res, payload := f.do(t, http.MethodGet, "/api/v1/my/comments", "user-1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var comments []api.Comment
	require.NoError(t, json.Unmarshal(payload, &comments))
	require.Len(t, comments, 2)
	require.Equal(t, "c-2", comments[0].ID)
}

func TestBackend_UserList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.aggregator.page = core.UserPage{
		Users:    []core.UserWithStats{{ID: "user-1", FirstName: "Bea", BlogCount: 2}},
		Total:    11,
		Page:     2,
		PageSize: 5,
	}

	res, payload := f.do(t, http.MethodGet, "/api/v1/admin/users?search=be&page=2&limit=5&sortBy=blog_count&sortOrder=asc", "admin-1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var page api.UserPage
	require.NoError(t, json.Unmarshal(payload, &page))
	require.EqualValues(t, 11, page.Total)
	require.EqualValues(t, 3, page.Pages)
	require.Len(t, page.Users, 1)
	require.EqualValues(t, 2, page.Users[0].BlogCount)

	require.Equal(t, "be", f.aggregator.lastParams.Search)
	require.Equal(t, 2, f.aggregator.lastParams.Page)
	require.Equal(t, 5, f.aggregator.lastParams.PageSize)
	require.Equal(t, core.SortByBlogCount, f.aggregator.lastParams.SortBy)
	require.Equal(t, core.SortAsc, f.aggregator.lastParams.SortDir)
}

func TestBackend_UserListPageSize(t *testing.T) {
	t.Parallel()

	t.Run("absent limit means the default page size", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodGet, "/api/v1/admin/users", "admin-1", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, core.DefaultPageSize, f.aggregator.lastParams.PageSize)
	})

	t.Run("explicit zero limit is passed through for clamping", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodGet, "/api/v1/admin/users?limit=0", "admin-1", nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, 0, f.aggregator.lastParams.PageSize)
	})
}

func TestBackend_BlockUser(t *testing.T) {
	t.Parallel()

	t.Run("blocks", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, payload := f.do(t, http.MethodPatch, "/api/v1/admin/users/user-1/block", "admin-1", map[string]bool{"value": true})
		require.Equal(t, http.StatusOK, res.StatusCode)

		var user api.User
		require.NoError(t, json.Unmarshal(payload, &user))
		require.True(t, user.IsBlocked)
	})

	t.Run("self-block is rejected and no mutation happens", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		res, _ := f.do(t, http.MethodPatch, "/api/v1/admin/users/admin-1/block", "admin-1", map[string]bool{"value": true})
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		require.False(t, f.users.users["admin-1"].Blocked)
	})
}

func TestBackend_PlatformStats(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.aggregator.platform = core.PlatformStats{
		TotalUsers:     3,
		AdminUsers:     1,
		TotalPosts:     7,
		PublishedPosts: 5,
		TotalPostLikes: 42,
		TotalComments:  13,
		TopAuthors: []core.TopAuthor{
			{UserID: "user-1", FirstName: "Bea", PostCount: 7, LikeSum: 42},
		},
	}

	res, payload := f.do(t, http.MethodGet, "/api/v1/admin/stats", "admin-1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var stats api.PlatformStats
	require.NoError(t, json.Unmarshal(payload, &stats))
	require.EqualValues(t, 3, stats.Users.TotalUsers)
	require.EqualValues(t, 7, stats.Blogs.TotalBlogs)
	require.EqualValues(t, 42, stats.Blogs.TotalLikes)
	require.EqualValues(t, 13, stats.Comments.TotalComments)
	require.Len(t, stats.TopAuthors, 1)
	require.EqualValues(t, 7, stats.TopAuthors[0].BlogCount)
}
