package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bloglytics/internal/core"
)

func TestListParams_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("zero value gets defaults", func(t *testing.T) {
		t.Parallel()

		params, err := core.ListParams{}.Normalize()
		require.NoError(t, err)

		require.Equal(t, 1, params.Page)
		require.Equal(t, 1, params.PageSize)
		require.Equal(t, core.SortByCreatedAt, params.SortBy)
		require.Equal(t, core.SortDesc, params.SortDir)
	})

	t.Run("page and page size are clamped to 1, not the default", func(t *testing.T) {
		t.Parallel()

		params, err := core.ListParams{Page: -3, PageSize: 0}.Normalize()
		require.NoError(t, err)

		require.Equal(t, 1, params.Page)
		require.Equal(t, 1, params.PageSize)
		require.Zero(t, params.Offset())

		params, err = core.ListParams{PageSize: -7}.Normalize()
		require.NoError(t, err)
		require.Equal(t, 1, params.PageSize)
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := core.ListParams{SortBy: "password_hash; DROP TABLE users"}.Normalize()
		require.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("anything but asc sorts descending", func(t *testing.T) {
		t.Parallel()

		params, err := core.ListParams{SortBy: core.SortByEmail, SortDir: "sideways"}.Normalize()
		require.NoError(t, err)
		require.Equal(t, core.SortDesc, params.SortDir)

		params, err = core.ListParams{SortBy: core.SortByEmail, SortDir: core.SortAsc}.Normalize()
		require.NoError(t, err)
		require.Equal(t, core.SortAsc, params.SortDir)
	})

	t.Run("search is trimmed", func(t *testing.T) {
		t.Parallel()

		params, err := core.ListParams{Search: "  jane  "}.Normalize()
		require.NoError(t, err)
		require.Equal(t, "jane", params.Search)
	})
}

func TestUserPage_Pages(t *testing.T) {
	t.Parallel()

	require.EqualValues(t, 3, core.UserPage{Total: 25, PageSize: 10}.Pages())
	require.EqualValues(t, 1, core.UserPage{Total: 10, PageSize: 10}.Pages())
	require.EqualValues(t, 0, core.UserPage{Total: 0, PageSize: 10}.Pages())
}
