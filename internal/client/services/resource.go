package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shalo/internal/client/api"
	"github.com/dmitrijs2005/shalo/internal/client/listing"
	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
)

// ResourceService groups resource reads and mutations. Mutations are sent
// with the current session credential and never change local listings;
// callers reload when they want fresh data.
type ResourceService interface {
	Get(ctx context.Context, id string) (*models.Resource, error)
	Create(ctx context.Context, draft models.ResourceDraft) (*models.Resource, error)
	Update(ctx context.Context, id string, patch models.ResourcePatch) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
	Bookmark(ctx context.Context, id string) error

	ListAll() listing.FetchFunc
	ListTrending() listing.FetchFunc
	ListBookmarks() listing.FetchFunc
}

type resourceService struct {
	client   api.Client
	sessions Sessions
}

func NewResourceService(client api.Client, sessions Sessions) ResourceService {
	return &resourceService{client: client, sessions: sessions}
}

func (s *resourceService) token() (string, error) {
	token, ok := s.sessions.Token()
	if !ok || token == "" {
		return "", api.ErrNoToken
	}
	return token, nil
}

func (s *resourceService) Get(ctx context.Context, id string) (*models.Resource, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res, err := s.client.GetByID(ctx, id, token)
	if err != nil {
		return nil, fmt.Errorf("get resource %s: %w", id, err)
	}
	return res, nil
}

func (s *resourceService) Create(ctx context.Context, draft models.ResourceDraft) (*models.Resource, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res, err := s.client.Create(ctx, draft, token)
	if err != nil {
		return nil, rejected("create", err)
	}
	return res, nil
}

func (s *resourceService) Update(ctx context.Context, id string, patch models.ResourcePatch) (*models.Resource, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	res, err := s.client.Update(ctx, id, patch, token)
	if err != nil {
		return nil, rejected("update", err)
	}
	return res, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	if err := s.client.Delete(ctx, id, token); err != nil {
		return rejected("delete", err)
	}
	return nil
}

func (s *resourceService) Bookmark(ctx context.Context, id string) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	if err := s.client.Bookmark(ctx, id, token); err != nil {
		return rejected("bookmark", err)
	}
	return nil
}

func (s *resourceService) ListAll() listing.FetchFunc {
	return s.client.ListAll
}

func (s *resourceService) ListTrending() listing.FetchFunc {
	return s.client.ListTrending
}

// ListBookmarks reads the credential when the fetch runs, not when the
// function is built.
func (s *resourceService) ListBookmarks() listing.FetchFunc {
	return func(ctx context.Context) ([]models.Resource, error) {
		token, err := s.token()
		if err != nil {
			return nil, err
		}
		return s.client.ListBookmarks(ctx, token)
	}
}

func rejected(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrRequestRejected, err)
}
