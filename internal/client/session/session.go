package session

import "github.com/dmitrijs2005/shalo/internal/client/models"

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

func (s Status) String() string { return string(s) }

// Session is a point-in-time copy of the coordinator state.
//
// Status is authenticated only when both Credential and Account are set.
// After a failed account lookup Credential may still be set while Status is
// anonymous; such a credential must not be used for requests.
type Session struct {
	Credential string
	Account    *models.Account
	Status     Status
}

func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}
