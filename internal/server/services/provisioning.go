// Package services contains server-side business logic: the account
// provisioning workflow, the media delete cascade, the orphan reconciler,
// and the bootstrap seeder.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/credentials"
	"github.com/dmitrijs2005/idprov/internal/server/mediastore"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
)

// RegisterRequest is the boundary input of the provisioning workflow.
type RegisterRequest struct {
	Name     string
	Login    string
	Password string
	// Image is the optional profile image content; nil means no image.
	Image []byte
	// ImageContentType is the MIME type of Image, if known.
	ImageContentType string
}

// RegisterResult reports the outcome of a registration. Errors carries
// field-level error descriptions when Success is false.
type RegisterResult struct {
	Success   bool
	AccountID string
	Errors    []string
}

// ProvisioningService orchestrates media upload, account creation, claim
// attachment and default-role assignment as a single logical operation with
// defined partial-failure behavior.
//
// Step order is fixed: upload happens before any local record exists, so a
// remote object is never created without a local MediaReference that can
// clean it up later. A MediaReference left behind by a failed account
// creation is an accepted, bounded orphan; the reconciler sweeps it.
type ProvisioningService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       mediastore.Store
	policy      *credentials.Policy
	hasher      credentials.Hasher
	logger      logging.Logger
	defaultRole string
}

func NewProvisioningService(db *sql.DB, m repomanager.RepositoryManager, store mediastore.Store,
	policy *credentials.Policy, hasher credentials.Hasher, logger logging.Logger, defaultRole string) *ProvisioningService {
	if defaultRole == "" {
		defaultRole = models.RoleUser
	}
	return &ProvisioningService{
		db:          db,
		repomanager: m,
		store:       store,
		policy:      policy,
		hasher:      hasher,
		logger:      logger.With("module", "provisioning"),
		defaultRole: defaultRole,
	}
}

// Register provisions an account. Validation and upload failures, and a
// conflicting login, yield Success=false with the collected errors. Failures
// after the account row is committed never flip the result back to failure;
// they are logged for reconciliation.
func (s *ProvisioningService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {

	if errs := s.policy.Validate(req.Name, req.Login, req.Password); len(errs) > 0 {
		return &RegisterResult{Success: false, Errors: errs}, nil
	}

	// step 1: media upload (conditional), committed independently
	mediaRef, err := s.processImage(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrorUploadFailed) {
			return &RegisterResult{Success: false, Errors: []string{err.Error()}}, nil
		}
		return nil, err
	}

	// step 2: account creation
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		Name:         models.NormalizeName(req.Name),
		Login:        req.Login,
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	if mediaRef != nil {
		account.MediaReferenceID = mediaRef.ID
	}

	account, err = s.repomanager.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorLoginAlreadyExists) {
			// the MediaReference from step 1, if any, stays behind as an
			// orphan for the reconciler
			return &RegisterResult{Success: false, Errors: []string{"login already exists"}}, nil
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	// step 3: claim attachment
	claims := make([]models.Claim, 0, 2)
	if mediaRef != nil {
		claims = append(claims, models.Claim{AccountID: account.ID, Type: models.ClaimTypeImage, Value: mediaRef.URL})
	}
	claims = append(claims, models.Claim{AccountID: account.ID, Type: models.ClaimTypeName, Value: account.Name})

	if err := s.repomanager.Claims(s.db).Attach(ctx, claims); err != nil {
		s.logger.Error(ctx, "claim attachment failed after account commit",
			"login", account.Login, "account_id", account.ID, "error", err.Error())
	}

	// step 4: default role assignment; a missing role is an operational
	// concern, not a registration failure
	s.assignDefaultRole(ctx, account)

	return &RegisterResult{Success: true, AccountID: account.ID, Errors: []string{}}, nil
}

// processImage uploads the image, if any, and persists its MediaReference in
// its own short transaction. Upload failures abort the whole workflow before
// any persistence.
func (s *ProvisioningService) processImage(ctx context.Context, req *RegisterRequest) (*models.MediaReference, error) {
	if len(req.Image) == 0 {
		return nil, nil
	}

	uploaded, err := s.store.Upload(ctx, req.Image, req.ImageContentType)
	if err != nil {
		s.logger.Error(ctx, "media upload failed", "login", req.Login, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", common.ErrorUploadFailed, err)
	}

	ref := &models.MediaReference{URL: uploaded.URL, RemotePublicID: uploaded.PublicID}
	ref, err = s.repomanager.Media(s.db).Create(ctx, ref)
	if err != nil {
		// the remote object exists but cannot be tracked locally; delete it
		// best effort so it does not leak untracked
		if delErr := s.store.Delete(ctx, uploaded.PublicID); delErr != nil {
			s.logger.Error(ctx, "leaked remote media object",
				"media_public_id", uploaded.PublicID, "error", delErr.Error())
		}
		return nil, fmt.Errorf("error persisting media reference: %w", err)
	}

	return ref, nil
}

func (s *ProvisioningService) assignDefaultRole(ctx context.Context, account *models.Account) {
	roleRepo := s.repomanager.Roles(s.db)

	role, err := roleRepo.FindByName(ctx, s.defaultRole)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "default role not seeded, skipping assignment",
				"role", s.defaultRole, "login", account.Login)
			return
		}
		s.logger.Error(ctx, "role lookup failed", "role", s.defaultRole,
			"login", account.Login, "error", err.Error())
		return
	}

	if err := roleRepo.Assign(ctx, account.ID, role.ID); err != nil {
		s.logger.Error(ctx, "role assignment failed after account commit",
			"role", s.defaultRole, "login", account.Login, "error", err.Error())
	}
}
