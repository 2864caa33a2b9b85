package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// promptCredentials asks for an email and a password. The password buffer is
// wiped before returning.
func (a *App) promptCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	pw, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	defer clear(pw)

	return email, string(pw), nil
}

// SignIn prompts for credentials and authenticates. On success the session
// is established and the credential persisted for the next run.
func (a *App) SignIn(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.fail(ctx, err)
	}

	account, err := a.auth.SignIn(ctx, email, password)
	return a.welcome(ctx, account, err)
}

// SignUp prompts for credentials and creates an account, signing in with it.
func (a *App) SignUp(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.fail(ctx, err)
	}

	account, err := a.auth.SignUp(ctx, email, password)
	return a.welcome(ctx, account, err)
}

func (a *App) welcome(ctx context.Context, account *models.Account, err error) error {
	if account == nil {
		return a.fail(ctx, err)
	}
	if err != nil {
		// signed in for this run only
		a.notifier.Notify(ctx, err)
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", account.DisplayName())
	return err
}

// SignOut clears the session. The current listing stays as it is, except
// for bookmarks which belong to the previous account.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return a.fail(ctx, err)
	}
	if a.current == a.bookmarks {
		a.current = a.home
	}
	a.bookmarks.list.ApplySearch(nil)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	acc := a.sessions.Account()
	if acc == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return common.ErrNotSignedIn
	}

	fmt.Fprintf(a.out, "%s <%s>\n", acc.DisplayName(), acc.Email)
	if acc.MemberNumber != "" {
		fmt.Fprintf(a.out, "Member #%s since %s\n", acc.MemberNumber, acc.JoinDate)
	}
	fmt.Fprintf(a.out, "Contributions: %d, bookmarks: %d\n", acc.Contributions, acc.Bookmarks)
	for _, f := range []struct{ label, value string }{
		{"Location", acc.Location},
		{"Website", acc.Website},
		{"GitHub", acc.GitHub},
		{"Twitter", acc.Twitter},
		{"Bio", acc.Bio},
	} {
		if f.value != "" {
			fmt.Fprintf(a.out, "%s: %s\n", f.label, f.value)
		}
	}
	return nil
}

// DeleteAccount asks for confirmation, deletes the account and signs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(ctx, common.ErrNotSignedIn)
	}

	answer, err := getSimpleText(a.reader, "Delete your account permanently? Type 'yes' to confirm", a.out)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		return a.fail(ctx, err)
	}
	if a.current == a.bookmarks {
		a.current = a.home
	}
	a.bookmarks.list.ApplySearch(nil)
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
