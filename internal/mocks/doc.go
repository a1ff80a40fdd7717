// Package mocks provides shared function-field test doubles for the store,
// auth, mailer and service interfaces.
//
// Each mock exposes an XxxFn field per method. When the field is nil the mock
// falls back to a simple in-memory or fixed behaviour, so tests only override
// what they assert on:
//
//	sessions := &mocks.MockSessionService{
//	    ValidateSessionFn: func(ctx context.Context, token string) (*domain.Identity, error) {
//	        return &domain.Identity{UserID: id, Role: domain.RoleAdmin}, nil
//	    },
//	}
package mocks
