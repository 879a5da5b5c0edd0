package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// errorPages renders a terminal HTML error response. *responses.View satisfies it.
type errorPages interface {
	Error(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error)
}
