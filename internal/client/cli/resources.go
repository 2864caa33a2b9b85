package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shalo/internal/client/models"
)

// getMultiline is an indirection for GetMultiline, swapped in tests.
var getMultiline = GetMultiline

// Show prints one resource with its activity feed.
func (a *App) Show(ctx context.Context, id string) error {
	r, err := a.resources.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}

	fmt.Fprintf(a.out, "%s\n", r.Title)
	fmt.Fprintf(a.out, "  id:      %s\n", r.ID)
	fmt.Fprintf(a.out, "  url:     %s\n", r.URL)
	fmt.Fprintf(a.out, "  author:  %s\n", r.Author)
	fmt.Fprintf(a.out, "  created: %s\n", r.DateCreated)
	if len(r.Tags) > 0 {
		fmt.Fprintf(a.out, "  tags:    %s\n", strings.Join(r.Tags, ", "))
	}
	if r.IsBookmarked {
		fmt.Fprintln(a.out, "  bookmarked")
	}
	if r.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", r.Description)
	}
	if len(r.Activity) > 0 {
		fmt.Fprintln(a.out, "\nActivity:")
		for _, act := range r.Activity {
			fmt.Fprintf(a.out, "  %s %s %s\n", act.Date, act.User, act.Type)
		}
	}
	return nil
}

// Create prompts for a new resource and submits it.
func (a *App) Create(ctx context.Context) error {
	var draft models.ResourceDraft
	var err error

	if draft.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return a.fail(ctx, err)
	}
	if draft.URL, err = getSimpleText(a.reader, "URL", a.out); err != nil {
		return a.fail(ctx, err)
	}
	if draft.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return a.fail(ctx, err)
	}
	tags, err := getSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	draft.Tags = ParseTags(tags)

	r, err := a.resources.Create(ctx, draft)
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Created %s\n", r.ID)
	return nil
}

// Update prompts for each field; a blank answer keeps the current value.
func (a *App) Update(ctx context.Context, id string) error {
	var patch models.ResourcePatch

	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"New title (blank to keep)", &patch.Title},
		{"New URL (blank to keep)", &patch.URL},
		{"New description (blank to keep)", &patch.Description},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return a.fail(ctx, err)
		}
		if v != "" {
			*f.dst = &v
		}
	}

	tags, err := getSimpleText(a.reader, "New tags, comma separated (blank to keep)", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if tags != "" {
		t := ParseTags(tags)
		patch.Tags = &t
	}

	if patch.Empty() {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	r, err := a.resources.Update(ctx, id, patch)
	if err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Updated %s\n", r.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.resources.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

func (a *App) Bookmark(ctx context.Context, id string) error {
	if err := a.resources.Bookmark(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	fmt.Fprintf(a.out, "Bookmarked %s\n", id)
	return nil
}
