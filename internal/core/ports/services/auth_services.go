package services

import (
	"context"
	"time"
)

// TokenSvcFacade defines the interface for operator authentication.
type TokenSvcFacade interface {
	// Login checks the operator credentials and issues an access token.
	Login(ctx context.Context, username, password string) (string, time.Time, error)

	// GenerateAccessToken issues a signed token for subject.
	GenerateAccessToken(ctx context.Context, subject string) (string, time.Time, error)
}
