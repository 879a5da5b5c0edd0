package middleware

import (
	"context"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type stubPages struct {
	errs []error
}

func (s *stubPages) Error(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	s.errs = append(s.errs, err)
	w.WriteHeader(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus)
}

func (s *stubPages) last() error {
	if len(s.errs) == 0 {
		return nil
	}
	return s.errs[len(s.errs)-1]
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})
