package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/shalo/internal/client/api"
	"github.com/dmitrijs2005/shalo/internal/client/config"
	"github.com/dmitrijs2005/shalo/internal/client/credstore"
	"github.com/dmitrijs2005/shalo/internal/client/listing"
	"github.com/dmitrijs2005/shalo/internal/client/notify"
	"github.com/dmitrijs2005/shalo/internal/client/search"
	"github.com/dmitrijs2005/shalo/internal/client/services"
	"github.com/dmitrijs2005/shalo/internal/client/session"
	"github.com/dmitrijs2005/shalo/internal/logging"
)

// view is one listing page the user can switch to.
type view struct {
	name   string
	list   *listing.Reconciler
	fetch  func() listing.FetchFunc
	ranked bool
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	notifier notify.Notifier
	out      io.Writer
	reader   *bufio.Reader
	db       *sql.DB

	sessions  *session.Coordinator
	auth      services.AuthService
	resources services.ResourceService
	search    *search.Bar

	home      *view
	trending  *view
	bookmarks *view
	current   *view
}

// NewApp opens the local database and builds the client against the
// configured API.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	store, db, err := credstore.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	client := api.NewHTTPClient(c.APIBaseURL,
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(logger.With("component", "api")),
	)

	a := newApp(c, client, store, logger, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, client api.Client, store credstore.Store, logger logging.Logger, in io.Reader, out io.Writer) *App {
	notifier := notify.NewWriter(out)
	sessions := session.NewCoordinator(store, client, logger)
	resources := services.NewResourceService(client, sessions)

	newList := func(size int) *listing.Reconciler {
		return listing.New(size,
			listing.WithLogger(logger.With("component", "listing")),
			listing.WithNotifier(notifier),
		)
	}

	home := &view{name: "home", list: newList(c.PageSize), fetch: resources.ListAll}

	return &App{
		config:    c,
		logger:    logger,
		notifier:  notifier,
		out:       out,
		reader:    bufio.NewReader(in),
		sessions:  sessions,
		auth:      services.NewAuthService(client, sessions),
		resources: resources,
		search:    search.NewBar(client, home.list, notifier, logger),
		home:      home,
		trending:  &view{name: "trending", list: newList(c.TrendingPageSize), fetch: resources.ListTrending, ranked: true},
		bookmarks: &view{name: "bookmarks", list: newList(c.PageSize), fetch: resources.ListBookmarks},
		current:   home,
	}
}

// Run restores the persisted session, shows the home listing and blocks in
// the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to Shalo CLI (type 'help' for commands)")

	if s := a.sessions.Initialize(ctx); s.IsAuthenticated() {
		fmt.Fprintf(a.out, "Signed in as %s\n", s.Account.DisplayName())
	}
	_ = a.Home(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close tears down the session and releases the database.
func (a *App) Close() {
	a.sessions.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "closing database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := a.sessions.Snapshot()
	switch s.Status {
	case session.StatusAuthenticated:
		return fmt.Sprintf("(%s %s)", s.Account.DisplayName(), a.current.name)
	case session.StatusLoading:
		return fmt.Sprintf("(loading %s)", a.current.name)
	default:
		return fmt.Sprintf("(%s)", a.current.name)
	}
}

// fail reports err to the user and returns it unchanged.
func (a *App) fail(ctx context.Context, err error) error {
	a.notifier.Notify(ctx, err)
	return err
}
