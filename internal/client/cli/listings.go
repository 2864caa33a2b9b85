package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
)

// Home reloads and shows all resources.
func (a *App) Home(ctx context.Context) error {
	return a.load(ctx, a.home)
}

// Trending reloads and shows the trending ranking.
func (a *App) Trending(ctx context.Context) error {
	return a.load(ctx, a.trending)
}

// Bookmarks reloads and shows the signed-in account's bookmarks.
func (a *App) Bookmarks(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Sign in to see your bookmarks")
		return common.ErrNotSignedIn
	}
	return a.load(ctx, a.bookmarks)
}

// Search replaces the home listing with the results of query. An empty query
// lists everything.
func (a *App) Search(ctx context.Context, query string) error {
	a.current = a.home
	if err := a.search.Submit(ctx, query); err != nil {
		return err
	}
	a.render(a.home)
	return nil
}

func (a *App) Next(context.Context) error {
	a.current.list.NextPage()
	a.render(a.current)
	return nil
}

func (a *App) Prev(context.Context) error {
	a.current.list.PrevPage()
	a.render(a.current)
	return nil
}

// Page jumps to page n of the current listing; out of range values are
// clamped.
func (a *App) Page(_ context.Context, n int) error {
	a.current.list.SetPage(n)
	a.render(a.current)
	return nil
}

// load switches to v and refreshes it. A failed refresh is already reported
// by the listing; the previous content is shown instead.
func (a *App) load(ctx context.Context, v *view) error {
	a.current = v
	err := v.list.LoadDefault(ctx, v.fetch())
	a.render(v)
	return err
}

func (a *App) render(v *view) {
	items := v.list.CurrentSlice()
	fmt.Fprintf(a.out, "%d cards found\n", v.list.Len())
	for _, r := range items {
		fmt.Fprintln(a.out, card(r, v.ranked))
	}
	fmt.Fprintf(a.out, "Page %d of %d\n", v.list.Page(), v.list.TotalPages())
}

func card(r models.Resource, ranked bool) string {
	var b strings.Builder
	if ranked && r.Rank != nil {
		fmt.Fprintf(&b, "#%d ", *r.Rank)
	}
	fmt.Fprintf(&b, "[%s] %s", r.ID, r.Title)
	if r.Author != "" {
		fmt.Fprintf(&b, " by %s", r.Author)
	}
	if r.IsBookmarked {
		b.WriteString(" *")
	}
	if ranked && r.Views != nil {
		fmt.Fprintf(&b, " (%d views)", *r.Views)
	}
	if len(r.Tags) > 0 {
		b.WriteString("\n    #" + strings.Join(r.Tags, " #"))
	}
	return b.String()
}
