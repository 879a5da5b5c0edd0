package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/internal/vendors"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupService registers a vendor account together with its storefront.
type SignupService interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
}

// SignupServiceParams packages the dependencies for the signup flow.
type SignupServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type signupService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewSignupService builds a signup service with the provided dependencies.
func NewSignupService(params SignupServiceParams) (SignupService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &signupService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *signupService) Signup(ctx context.Context, req SignupRequest) (*SignupResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	storeName := strings.TrimSpace(req.StoreName)

	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if storeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if err := security.CheckPasswordPolicy(password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var result SignupResult
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		vendorRepo := vendors.NewRepository(tx)

		exists, err := userRepo.UsernameExists(ctx, username)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if exists {
			return errUsernameTaken()
		}
		taken, err := vendorRepo.StoreNameTaken(ctx, storeName, uuid.Nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store name")
		}
		if taken {
			return errStoreNameTaken()
		}

		user := &models.User{Username: username, Email: email, PasswordHash: passwordHash}
		if err := userRepo.Create(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "ux_users_username", "users.username") {
				return errUsernameTaken()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		vendor := &models.Vendor{UserID: user.ID, StoreName: storeName}
		if err := vendorRepo.CreateWithUniqueSlug(ctx, vendor); err != nil {
			if db.IsUniqueViolation(err, models.VendorStoreNameConstraint, "vendors.store_name") {
				return errStoreNameTaken()
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
		}

		result = SignupResult{UserID: user.ID, VendorID: vendor.ID, Slug: vendor.SlugValue()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func errUsernameTaken() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
}

func errStoreNameTaken() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "store name already taken")
}
