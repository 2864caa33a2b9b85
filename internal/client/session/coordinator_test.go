package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/shalo/internal/client/api"
	"github.com/dmitrijs2005/shalo/internal/client/credstore"
	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fakes
 *************/

type fakeAccounts struct {
	mu      sync.Mutex
	calls   int
	tokens  []string
	account *models.Account
	err     error

	// started is closed on the first call; gate, when set, blocks the call.
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeAccounts) GetAccount(ctx context.Context, token string) (*models.Account, error) {
	f.mu.Lock()
	f.calls++
	f.tokens = append(f.tokens, token)
	if f.started != nil && f.calls == 1 {
		close(f.started)
	}
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	a := *f.account
	return &a, nil
}

func (f *fakeAccounts) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenStore) Set(context.Context, string, string) error         { return b.err }
func (b brokenStore) Remove(context.Context, string) error              { return b.err }

// gatedStore reads from the wrapped store, then blocks Get until gate is
// closed.
type gatedStore struct {
	*credstore.MemoryStore
	started chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedStore(inner *credstore.MemoryStore) *gatedStore {
	return &gatedStore{MemoryStore: inner, started: make(chan struct{}), gate: make(chan struct{})}
}

func (g *gatedStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := g.MemoryStore.Get(ctx, key)
	g.once.Do(func() { close(g.started) })
	<-g.gate
	return v, ok, err
}

func storedToken(t *testing.T, s credstore.Store) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), common.CredentialKey)
	require.NoError(t, err)
	return v, ok
}

func withToken(t *testing.T, token string) *credstore.MemoryStore {
	t.Helper()
	s := credstore.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), common.CredentialKey, token))
	return s
}

var ann = models.Account{ID: "u1", Email: "ann@example.org", Name: "Ann"}

/*************
 * Tests
 *************/

func TestNewCoordinator_StartsUninitialized(t *testing.T) {
	c := NewCoordinator(credstore.NewMemoryStore(), &fakeAccounts{}, nil)
	assert.Equal(t, StatusUninitialized, c.Status())
	_, ok := c.Token()
	assert.False(t, ok)
}

func TestInitialize_NoCredentialIsAnonymous(t *testing.T) {
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(credstore.NewMemoryStore(), accounts, nil)

	s := c.Initialize(context.Background())

	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Nil(t, s.Account)
	assert.Empty(t, s.Credential)
	assert.Zero(t, accounts.Calls(), "no fetch without a credential")
}

func TestInitialize_StoredCredentialAuthenticates(t *testing.T) {
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(withToken(t, "tok"), accounts, nil)

	s := c.Initialize(context.Background())

	require.Equal(t, StatusAuthenticated, s.Status)
	require.NotNil(t, s.Account)
	assert.Equal(t, "u1", s.Account.ID)
	assert.Equal(t, []string{"tok"}, accounts.tokens)

	token, ok := c.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestInitialize_LookupFailureDegradesToAnonymous(t *testing.T) {
	for name, lookupErr := range map[string]error{
		"network":      api.ErrUnavailable,
		"expired":      api.ErrUnauthorized,
		"null account": api.ErrNotFound,
	} {
		t.Run(name, func(t *testing.T) {
			store := withToken(t, "stale")
			c := NewCoordinator(store, &fakeAccounts{err: lookupErr}, nil)

			var s Session
			require.NotPanics(t, func() { s = c.Initialize(context.Background()) })

			assert.Equal(t, StatusAnonymous, s.Status)
			assert.Nil(t, s.Account)
			assert.False(t, c.IsAuthenticated())

			_, ok := c.Token()
			assert.False(t, ok, "a rejected credential is never handed out")

			v, ok := storedToken(t, store)
			assert.True(t, ok, "stored credential is not purged")
			assert.Equal(t, "stale", v)
		})
	}
}

func TestInitialize_CachedAccountSkipsFetch(t *testing.T) {
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(withToken(t, "tok"), accounts, nil)
	ctx := context.Background()

	c.Initialize(ctx)
	c.Initialize(ctx)
	s := c.Initialize(ctx)

	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, 1, accounts.Calls())
}

func TestInitialize_ConcurrentCallersShareOneFetch(t *testing.T) {
	accounts := &fakeAccounts{account: &ann, started: make(chan struct{}), gate: make(chan struct{})}
	c := NewCoordinator(withToken(t, "tok"), accounts, nil)
	ctx := context.Background()

	results := make(chan Session, 2)
	go func() { results <- c.Initialize(ctx) }()

	<-accounts.started
	assert.Equal(t, StatusLoading, c.Status(), "callers observe loading while the fetch is outstanding")

	go func() { results <- c.Initialize(ctx) }()
	close(accounts.gate)

	for i := 0; i < 2; i++ {
		s := <-results
		assert.Equal(t, StatusAuthenticated, s.Status)
	}
	assert.Equal(t, 1, accounts.Calls())
}

func TestInitialize_StoreReadErrorIsAnonymous(t *testing.T) {
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(brokenStore{err: errors.New("disk gone")}, accounts, nil)

	s := c.Initialize(context.Background())

	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Zero(t, accounts.Calls())
}

func TestEstablish_AuthenticatesAndPersists(t *testing.T) {
	store := credstore.NewMemoryStore()
	c := NewCoordinator(store, &fakeAccounts{}, nil)

	require.NoError(t, c.Establish(context.Background(), ann, "fresh"))

	assert.Equal(t, StatusAuthenticated, c.Status())
	assert.Equal(t, "Ann", c.Account().Name)
	v, ok := storedToken(t, store)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestEstablish_SurvivesReload(t *testing.T) {
	store := credstore.NewMemoryStore()
	ctx := context.Background()

	first := NewCoordinator(store, &fakeAccounts{}, nil)
	require.NoError(t, first.Establish(ctx, ann, "fresh"))
	first.Close()
	assert.Equal(t, StatusUninitialized, first.Status())

	accounts := &fakeAccounts{account: &ann}
	reloaded := NewCoordinator(store, accounts, nil)
	s := reloaded.Initialize(ctx)

	assert.Equal(t, StatusAuthenticated, s.Status)
	assert.Equal(t, []string{"fresh"}, accounts.tokens)
}

func TestEstablish_StorageErrorKeepsMemoryState(t *testing.T) {
	c := NewCoordinator(brokenStore{err: errors.New("read-only")}, &fakeAccounts{}, nil)

	err := c.Establish(context.Background(), ann, "tok")

	require.Error(t, err)
	assert.True(t, c.IsAuthenticated())
}

func TestClear_RemovesCredential(t *testing.T) {
	store := withToken(t, "tok")
	ctx := context.Background()
	c := NewCoordinator(store, &fakeAccounts{account: &ann}, nil)
	require.Equal(t, StatusAuthenticated, c.Initialize(ctx).Status)

	require.NoError(t, c.Clear(ctx))

	s := c.Snapshot()
	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Nil(t, s.Account)
	assert.Empty(t, s.Credential)
	_, ok := storedToken(t, store)
	assert.False(t, ok)

	accounts := &fakeAccounts{account: &ann}
	reloaded := NewCoordinator(store, accounts, nil)
	assert.Equal(t, StatusAnonymous, reloaded.Initialize(ctx).Status)
	assert.Zero(t, accounts.Calls())
}

func TestClear_WinsOverOutstandingLookup(t *testing.T) {
	accounts := &fakeAccounts{account: &ann, started: make(chan struct{}), gate: make(chan struct{})}
	c := NewCoordinator(withToken(t, "tok"), accounts, nil)
	ctx := context.Background()

	done := make(chan Session)
	go func() { done <- c.Initialize(ctx) }()

	<-accounts.started
	require.NoError(t, c.Clear(ctx))
	close(accounts.gate)

	s := <-done
	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Equal(t, StatusAnonymous, c.Status())
	assert.Nil(t, c.Account())
}

func TestClear_WinsOverOutstandingCredentialRead(t *testing.T) {
	store := newGatedStore(withToken(t, "tok"))
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(store, accounts, nil)
	ctx := context.Background()

	done := make(chan Session)
	go func() { done <- c.Initialize(ctx) }()

	<-store.started
	require.NoError(t, c.Clear(ctx))
	close(store.gate)

	s := <-done
	assert.Equal(t, StatusAnonymous, s.Status)
	assert.Equal(t, StatusAnonymous, c.Status())
	tok, ok := c.Token()
	assert.False(t, ok)
	assert.Empty(t, tok)
	assert.Zero(t, accounts.Calls())
	_, stored := storedToken(t, store)
	assert.False(t, stored)
}

func TestEstablish_WinsOverOutstandingCredentialRead(t *testing.T) {
	store := newGatedStore(credstore.NewMemoryStore())
	accounts := &fakeAccounts{account: &ann}
	c := NewCoordinator(store, accounts, nil)
	ctx := context.Background()

	done := make(chan Session)
	go func() { done <- c.Initialize(ctx) }()

	<-store.started
	require.NoError(t, c.Establish(ctx, ann, "fresh"))
	close(store.gate)

	s := <-done
	assert.Equal(t, StatusAuthenticated, s.Status)
	require.NotNil(t, c.Account())
	assert.Equal(t, "u1", c.Account().ID)
	tok, ok := c.Token()
	assert.True(t, ok)
	assert.Equal(t, "fresh", tok)
	assert.Zero(t, accounts.Calls())
}

func TestAccount_ReturnsCopy(t *testing.T) {
	c := NewCoordinator(credstore.NewMemoryStore(), &fakeAccounts{}, nil)
	require.NoError(t, c.Establish(context.Background(), ann, "tok"))

	a := c.Account()
	a.Name = "mutated"

	assert.Equal(t, "Ann", c.Account().Name)
}
