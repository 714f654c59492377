package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var spec = SortSpec{
	Allowed:      map[string]string{"createdAt": "created_at", "status": "status"},
	DefaultField: "createdAt",
	DefaultDesc:  true,
}

func TestNormalize_Defaults(t *testing.T) {
	p := Normalize(Request{}, spec)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, "created_at", p.SortField)
	require.True(t, p.Desc)
	require.Equal(t, 0, p.Offset())
}

func TestNormalize_CapsLimit(t *testing.T) {
	p := Normalize(Request{Page: 3, Limit: 500}, spec)
	require.Equal(t, MaxLimit, p.Limit)
	require.Equal(t, 200, p.Offset())
}

func TestNormalize_RejectsUnknownSortField(t *testing.T) {
	p := Normalize(Request{SortBy: "password", SortOrder: "asc"}, spec)
	require.Equal(t, "created_at", p.SortField)
	require.True(t, p.Desc)
}

func TestNormalize_AllowedSort(t *testing.T) {
	p := Normalize(Request{SortBy: "status", SortOrder: "asc"}, spec)
	require.Equal(t, "status", p.SortField)
	require.False(t, p.Desc)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 20}, 41)
	require.Equal(t, 3, meta.TotalPages)
	require.Equal(t, int64(41), meta.TotalItems)
	require.Equal(t, 20, meta.ItemsPerPage)
	require.Equal(t, 2, meta.CurrentPage)
}

func TestNormalize_ClampsHugePage(t *testing.T) {
	p := Normalize(Request{Page: math.MaxInt64/50 + 1, Limit: 100}, spec)
	require.Equal(t, MaxPage, p.Page)
	require.GreaterOrEqual(t, p.Offset(), 0)

	start, end := p.Window(1)
	require.Equal(t, 1, start)
	require.Equal(t, 1, end)
}

func TestOffset_Saturates(t *testing.T) {
	p := Params{Page: math.MaxInt64/50 + 1, Limit: 100}
	require.Equal(t, math.MaxInt, p.Offset())

	start, end := p.Window(3)
	require.Equal(t, 3, start)
	require.Equal(t, 3, end)
}

func TestWindow(t *testing.T) {
	start, end := Params{Page: 2, Limit: 2}.Window(5)
	require.Equal(t, []int{2, 4}, []int{start, end})

	start, end = Params{Page: 3, Limit: 2}.Window(5)
	require.Equal(t, []int{4, 5}, []int{start, end})

	start, end = Params{Page: 1}.Window(5)
	require.Equal(t, []int{0, 5}, []int{start, end})
}
