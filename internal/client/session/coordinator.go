package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/shalo/internal/client/credstore"
	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/dmitrijs2005/shalo/internal/logging"
	"golang.org/x/sync/singleflight"
)

// AccountFetcher exchanges a credential for the account it belongs to.
type AccountFetcher interface {
	GetAccount(ctx context.Context, token string) (*models.Account, error)
}

type Coordinator struct {
	store    credstore.Store
	accounts AccountFetcher
	logger   logging.Logger

	// writeMu orders credential writes so storage always ends up matching
	// the last Establish/Clear.
	writeMu sync.Mutex
	group   singleflight.Group

	mu         sync.RWMutex
	credential string
	account    *models.Account
	status     Status
	// generation changes on every Establish/Clear/Close; a credential read
	// or account fetch started under an older generation is discarded.
	generation uint64
}

func NewCoordinator(store credstore.Store, accounts AccountFetcher, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Coordinator{
		store:    store,
		accounts: accounts,
		logger:   logger.With("component", "session"),
		status:   StatusUninitialized,
	}
}

// Initialize loads the persisted credential and resolves it to an account.
//
// Without a stored credential the session becomes anonymous. With an account
// already cached in memory it becomes authenticated without any request.
// Otherwise the status is loading while the account is fetched; a failed
// fetch leaves the session anonymous and the stored credential untouched.
//
// Concurrent callers share one in-flight fetch and all receive its result.
// The context of the caller that started the fetch governs it.
func (c *Coordinator) Initialize(ctx context.Context) Session {
	v, _, _ := c.group.Do("initialize", func() (any, error) {
		return c.initialize(ctx), nil
	})
	return v.(Session)
}

func (c *Coordinator) initialize(ctx context.Context) Session {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	token, ok, err := c.store.Get(ctx, common.CredentialKey)
	if err != nil {
		c.logger.Warn(ctx, "cannot read stored credential", "error", err)
		ok = false
	}

	c.mu.Lock()
	// A session write landed during the read and keeps its state.
	if gen != c.generation {
		defer c.mu.Unlock()
		c.logger.Debug(ctx, "credential read superseded")
		return c.snapshotLocked()
	}

	if !ok || token == "" {
		c.credential = ""
		c.account = nil
		c.status = StatusAnonymous
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}

	c.credential = token
	if c.account != nil {
		c.status = StatusAuthenticated
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}

	c.status = StatusLoading
	c.mu.Unlock()

	account, err := c.accounts.GetAccount(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug(ctx, "account lookup superseded")
		return c.snapshotLocked()
	}

	if err != nil {
		c.logger.Warn(ctx, "falling back to anonymous session",
			"error", fmt.Errorf("%w: %w", common.ErrAuthLookupFailed, err))
		c.account = nil
		c.status = StatusAnonymous
		return c.snapshotLocked()
	}

	c.account = account
	c.status = StatusAuthenticated
	c.logger.Info(ctx, "session restored", "account_id", account.ID)
	return c.snapshotLocked()
}

// Establish marks the session authenticated with the given account and
// persists the credential. The credential is not validated. A storage error
// is returned, but the in-memory session stays authenticated.
func (c *Coordinator) Establish(ctx context.Context, account models.Account, credential string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.account = &account
	c.credential = credential
	c.status = StatusAuthenticated
	c.generation++
	c.mu.Unlock()

	if err := c.store.Set(ctx, common.CredentialKey, credential); err != nil {
		c.logger.Error(ctx, "cannot persist credential", "error", err)
		return fmt.Errorf("persist credential: %w", err)
	}
	c.logger.Info(ctx, "session established", "account_id", account.ID)
	return nil
}

// Clear signs the session out and removes the persisted credential.
func (c *Coordinator) Clear(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.account = nil
	c.credential = ""
	c.status = StatusAnonymous
	c.generation++
	c.mu.Unlock()

	if err := c.store.Remove(ctx, common.CredentialKey); err != nil {
		c.logger.Error(ctx, "cannot remove credential", "error", err)
		return fmt.Errorf("remove credential: %w", err)
	}
	c.logger.Info(ctx, "session cleared")
	return nil
}

// Close tears the coordinator down to the uninitialized state. Storage is
// left alone.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = nil
	c.credential = ""
	c.status = StatusUninitialized
	c.generation++
}

func (c *Coordinator) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Account returns a copy of the cached account, or nil.
func (c *Coordinator) Account() *models.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.account == nil {
		return nil
	}
	a := *c.account
	return &a
}

// Token returns the bearer credential while the session is authenticated.
func (c *Coordinator) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.status != StatusAuthenticated {
		return "", false
	}
	return c.credential, true
}

func (c *Coordinator) IsAuthenticated() bool {
	return c.Status() == StatusAuthenticated
}

func (c *Coordinator) snapshotLocked() Session {
	s := Session{Credential: c.credential, Status: c.status}
	if c.account != nil {
		a := *c.account
		s.Account = &a
	}
	return s
}
