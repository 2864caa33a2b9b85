package listing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/client/notify"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []models.Resource {
	out := make([]models.Resource, n)
	for i := range out {
		out[i] = models.Resource{ID: fmt.Sprintf("r%d", i), Title: fmt.Sprintf("Resource %d", i)}
	}
	return out
}

func fetchOK(rs []models.Resource) FetchFunc {
	return func(context.Context) ([]models.Resource, error) { return rs, nil }
}

func fetchErr(err error) FetchFunc {
	return func(context.Context) ([]models.Resource, error) { return nil, err }
}

func ids(rs []models.Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestNew_EmptyListing(t *testing.T) {
	r := New(6)

	assert.Equal(t, 1, r.Page())
	assert.Equal(t, 1, r.TotalPages())
	assert.NotNil(t, r.CurrentSlice())
	assert.Empty(t, r.CurrentSlice())
	assert.False(t, r.Loading())
}

func TestNew_CoercesPageSize(t *testing.T) {
	assert.Equal(t, 1, New(0).PageSize())
	assert.Equal(t, 1, New(-3).PageSize())
}

func TestSetPage_ClampsAndSlices(t *testing.T) {
	r := New(6)
	r.ApplySearch(items(13))

	require.Equal(t, 3, r.TotalPages())

	assert.Equal(t, 3, r.SetPage(5))
	last := r.CurrentSlice()
	require.Len(t, last, 1)
	assert.Equal(t, "r12", last[0].ID)

	assert.Equal(t, 1, r.SetPage(0))
	assert.Equal(t, 1, r.SetPage(-7))
	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4", "r5"}, ids(r.CurrentSlice()))

	assert.Equal(t, 2, r.SetPage(2))
	assert.Equal(t, []string{"r6", "r7", "r8", "r9", "r10", "r11"}, ids(r.CurrentSlice()))
}

func TestSetPage_AlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := New(1 + rng.Intn(7))

	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			r.ApplySearch(items(rng.Intn(40)))
		case 1:
			r.NextPage()
		case 2:
			r.PrevPage()
		default:
			r.SetPage(rng.Intn(30) - 10)
		}

		s := r.Snapshot()
		wantTotal := max(1, (len(s.Items)+s.PageSize-1)/s.PageSize)
		require.Equal(t, wantTotal, s.TotalPages)
		require.GreaterOrEqual(t, s.Page, 1)
		require.LessOrEqual(t, s.Page, s.TotalPages)
		require.LessOrEqual(t, len(r.CurrentSlice()), s.PageSize)
	}
}

func TestNextPrev(t *testing.T) {
	r := New(5)
	r.ApplySearch(items(11))

	assert.Equal(t, 2, r.NextPage())
	assert.Equal(t, 3, r.NextPage())
	assert.Equal(t, 3, r.NextPage())
	assert.Equal(t, 2, r.PrevPage())
	assert.Equal(t, 1, r.PrevPage())
	assert.Equal(t, 1, r.PrevPage())
}

func TestApplySearch_ResetsPage(t *testing.T) {
	r := New(6)
	r.ApplySearch(items(20))
	r.SetPage(3)

	r.ApplySearch(items(8))

	assert.Equal(t, 1, r.Page())
	assert.Equal(t, 8, r.Len())
}

func TestApplySearch_EmptyResults(t *testing.T) {
	r := New(6)
	r.ApplySearch(items(9))
	r.SetPage(2)

	r.ApplySearch([]models.Resource{})

	assert.Zero(t, r.Len())
	assert.Equal(t, 1, r.Page())
	assert.Equal(t, 1, r.TotalPages())
	assert.NotNil(t, r.CurrentSlice())
	assert.Empty(t, r.CurrentSlice())
}

func TestApplySearch_CopiesInput(t *testing.T) {
	r := New(6)
	in := items(2)
	r.ApplySearch(in)

	in[0].Title = "mutated"

	assert.Equal(t, "Resource 0", r.CurrentSlice()[0].Title)
}

func TestLoadDefault_ReplacesItems(t *testing.T) {
	r := New(6)
	r.ApplySearch(items(20))
	r.SetPage(4)

	require.NoError(t, r.LoadDefault(context.Background(), fetchOK(items(3))))

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.Page())
	assert.False(t, r.Loading())
}

func TestLoadDefault_FailureKeepsPreviousState(t *testing.T) {
	rec := &notify.Recorder{}
	r := New(6, WithNotifier(rec))
	r.ApplySearch(items(13))
	r.SetPage(2)
	before := r.Snapshot()

	boom := errors.New("connection reset")
	err := r.LoadDefault(context.Background(), fetchErr(boom))

	require.ErrorIs(t, err, common.ErrListingFailed)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, r.Snapshot())
	assert.False(t, r.Loading(), "loading is released on failure")
	require.Len(t, rec.Errors(), 1)
	assert.ErrorIs(t, rec.Errors()[0], boom)
}

func TestLoadDefault_LoadingWhileInFlight(t *testing.T) {
	r := New(6)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error)
	go func() {
		done <- r.LoadDefault(context.Background(), func(context.Context) ([]models.Resource, error) {
			close(started)
			<-release
			return items(2), nil
		})
	}()

	<-started
	assert.True(t, r.Loading())
	assert.True(t, r.Snapshot().Loading)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, r.Loading())
}

func TestLoadDefault_SlowDefaultDoesNotClobberSearch(t *testing.T) {
	r := New(6)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error)
	go func() {
		done <- r.LoadDefault(context.Background(), func(context.Context) ([]models.Resource, error) {
			close(started)
			<-release
			return items(30), nil
		})
	}()

	<-started
	search := []models.Resource{{ID: "hit"}}
	r.ApplySearch(search)

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"hit"}, ids(r.CurrentSlice()))
	assert.False(t, r.Loading())
}

func TestCommit_NewestCommittedTicketWins(t *testing.T) {
	r := New(6)

	older := r.Begin()
	newer := r.Begin()
	assert.True(t, r.Loading())

	require.True(t, r.Commit(newer, items(1)))
	assert.False(t, r.Commit(older, items(5)), "an older ticket cannot override a newer commit")
	assert.Equal(t, 1, r.Len())

	r.End(older)
	assert.True(t, r.Loading())
	r.End(newer)
	assert.False(t, r.Loading())
}

func TestCommit_OlderTicketAppliesWhileNewerIsPending(t *testing.T) {
	r := New(6)

	older := r.Begin()
	newer := r.Begin()

	assert.True(t, r.Commit(older, items(2)))
	assert.True(t, r.Commit(newer, items(4)))
	assert.Equal(t, 4, r.Len())
}

func TestEnd_IsBalanced(t *testing.T) {
	r := New(6)
	r.End(Ticket(99))
	assert.False(t, r.Loading())
}
