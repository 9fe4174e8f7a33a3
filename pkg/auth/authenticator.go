package auth

import (
	"log/slog"
	"slices"
)

type authenticator struct {
	authorizedUserIDs []int64
}

// NewAuthenticator gates the Telegram front-end. An empty list authorizes nobody.
func NewAuthenticator(authorizedUserIDs []int64) *authenticator {
	slog.Info("telegram authorized users", "count", len(authorizedUserIDs))

	return &authenticator{
		authorizedUserIDs: slices.Clone(authorizedUserIDs),
	}
}

func (a *authenticator) IsAuthorized(userID int64) bool {
	return slices.Contains(a.authorizedUserIDs, userID)
}
