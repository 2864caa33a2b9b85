package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/shalo/internal/client/api"
	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/common"
)

// Sessions is the part of the session coordinator the services depend on.
type Sessions interface {
	Establish(ctx context.Context, account models.Account, credential string) error
	Clear(ctx context.Context) error
	Account() *models.Account
	Token() (string, bool)
}

// AuthService defines account operations for the CLI.
//
// Contract:
//   - SignIn, SignUp: exchange credentials with the API and establish the session.
//   - SignOut: clear the session and the persisted credential.
//   - DeleteAccount: delete the signed-in account, then sign out.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.Account, error)
	SignUp(ctx context.Context, email, password string) (*models.Account, error)
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

type authService struct {
	client   api.Client
	sessions Sessions
}

func NewAuthService(client api.Client, sessions Sessions) AuthService {
	return &authService{client: client, sessions: sessions}
}

// SignIn authenticates against the API. If the credential cannot be
// persisted the account is still returned together with the error; the
// session stays authenticated for this run.
func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Account, error) {
	creds, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in error: %w", err)
	}
	return s.establish(ctx, creds)
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*models.Account, error) {
	creds, err := s.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign up error: %w", err)
	}
	return s.establish(ctx, creds)
}

func (s *authService) establish(ctx context.Context, creds *models.Credentials) (*models.Account, error) {
	account := creds.Account
	if err := s.sessions.Establish(ctx, account, creds.Token); err != nil {
		return &account, fmt.Errorf("session saving error: %w", err)
	}
	return &account, nil
}

func (s *authService) SignOut(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

func (s *authService) DeleteAccount(ctx context.Context) error {
	account := s.sessions.Account()
	if account == nil {
		return common.ErrNotSignedIn
	}
	if err := s.client.DeleteAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("%w: %w", common.ErrRequestRejected, err)
	}
	return s.sessions.Clear(ctx)
}
