package api

import (
	"context"

	"github.com/dmitrijs2005/shalo/internal/client/models"
)

// Client is the resource API as seen by the rest of the client. Methods that
// take a token require it to be non-empty.
type Client interface {
	GetAccount(ctx context.Context, token string) (*models.Account, error)

	ListAll(ctx context.Context) ([]models.Resource, error)
	ListTrending(ctx context.Context) ([]models.Resource, error)
	ListBookmarks(ctx context.Context, token string) ([]models.Resource, error)
	Search(ctx context.Context, query string) ([]models.Resource, error)

	GetByID(ctx context.Context, id, token string) (*models.Resource, error)
	Create(ctx context.Context, draft models.ResourceDraft, token string) (*models.Resource, error)
	Update(ctx context.Context, id string, patch models.ResourcePatch, token string) (*models.Resource, error)
	Delete(ctx context.Context, id, token string) error
	Bookmark(ctx context.Context, id, token string) error

	SignIn(ctx context.Context, email, password string) (*models.Credentials, error)
	SignUp(ctx context.Context, email, password string) (*models.Credentials, error)
	DeleteAccount(ctx context.Context, id string) error
}
