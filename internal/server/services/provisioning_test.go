package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/credentials"
	"github.com/dmitrijs2005/idprov/internal/server/mediastore"
	"github.com/dmitrijs2005/idprov/internal/server/models"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type fakeHasher struct {
	err error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("mismatch")
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type provisioningEnv struct {
	svc   *ProvisioningService
	mgr   *repomanager.MemoryRepositoryManager
	store *mediastore.MemoryStore
}

func newProvisioningEnv(t *testing.T) *provisioningEnv {
	t.Helper()
	mgr := repomanager.NewMemoryRepositoryManager()
	store := mediastore.NewMemoryStore()
	svc := NewProvisioningService(nil, mgr, store, credentials.NewPolicy(), &fakeHasher{}, testLogger(), models.RoleUser)
	return &provisioningEnv{svc: svc, mgr: mgr, store: store}
}

func (e *provisioningEnv) seedUserRole(t *testing.T) *models.Role {
	t.Helper()
	role, err := e.mgr.Roles(nil).Create(context.Background(), &models.Role{Name: models.RoleUser})
	require.NoError(t, err)
	return role
}

func validRequest() *RegisterRequest {
	return &RegisterRequest{Name: "john SMITH", Login: "john@example.com", Password: "secret1"}
}

// --- tests ---

func TestRegister_Success_NoImage(t *testing.T) {
	env := newProvisioningEnv(t)
	env.seedUserRole(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, validRequest())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Empty(t, res.Errors)
	require.NotEmpty(t, res.AccountID)

	account, err := env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", account.Name)
	assert.Equal(t, models.StatusActive, account.Status)
	assert.Empty(t, account.MediaReferenceID)

	claims, err := env.mgr.Claims(nil).SelectByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, models.ClaimTypeName, claims[0].Type)
	assert.Equal(t, "John Smith", claims[0].Value)

	roles, err := env.mgr.Roles(nil).SelectByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, roles)

	assert.Zero(t, env.store.UploadCalls)
}

func TestRegister_DuplicateLogin(t *testing.T) {
	env := newProvisioningEnv(t)
	env.seedUserRole(t)
	ctx := context.Background()

	first, err := env.svc.Register(ctx, validRequest())
	require.NoError(t, err)
	require.True(t, first.Success)

	req := validRequest()
	req.Name = "someone ELSE"
	res, err := env.svc.Register(ctx, req)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Errors, "login already exists")

	// the original account is untouched
	account, err := env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", account.Name)
}

func TestRegister_WithImage(t *testing.T) {
	env := newProvisioningEnv(t)
	env.seedUserRole(t)
	ctx := context.Background()

	req := validRequest()
	req.Image = []byte{0x89, 0x50, 0x4e, 0x47}
	req.ImageContentType = "image/png"

	res, err := env.svc.Register(ctx, req)
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.Equal(t, 1, env.store.UploadCalls)
	assert.Equal(t, 1, env.store.Len())

	account, err := env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, account.MediaReferenceID)

	ref, err := env.mgr.Media(nil).Get(ctx, account.MediaReferenceID)
	require.NoError(t, err)
	assert.NotEmpty(t, ref.URL)
	assert.NotEmpty(t, ref.RemotePublicID)

	claims, err := env.mgr.Claims(nil).SelectByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, models.ClaimTypeImage, claims[0].Type)
	assert.Equal(t, ref.URL, claims[0].Value)
	assert.Equal(t, models.ClaimTypeName, claims[1].Type)
}

func TestRegister_UploadFailure_NothingPersisted(t *testing.T) {
	env := newProvisioningEnv(t)
	env.seedUserRole(t)
	env.store.UploadErr = errors.New("storage unavailable")
	ctx := context.Background()

	req := validRequest()
	req.Image = []byte("img")

	res, err := env.svc.Register(ctx, req)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "media upload failed")

	_, err = env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	orphans, err := env.mgr.Media(nil).SelectOrphans(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestRegister_AccountFailure_KeepsOrphanMedia(t *testing.T) {
	env := newProvisioningEnv(t)
	env.seedUserRole(t)
	ctx := context.Background()

	// occupy the login first
	_, err := env.svc.Register(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Image = []byte("img")

	res, err := env.svc.Register(ctx, req)
	require.NoError(t, err)
	require.False(t, res.Success)

	// the uploaded object and its reference stay behind for the reconciler
	assert.Equal(t, 1, env.store.UploadCalls)
	assert.Equal(t, 1, env.store.Len())

	orphans, err := env.mgr.Media(nil).SelectOrphans(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.NotEmpty(t, orphans[0].RemotePublicID)
}

func TestRegister_MissingDefaultRole_StillSucceeds(t *testing.T) {
	env := newProvisioningEnv(t) // no roles seeded
	ctx := context.Background()

	res, err := env.svc.Register(ctx, validRequest())
	require.NoError(t, err)
	require.True(t, res.Success)

	account, err := env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	require.NoError(t, err)

	roles, err := env.mgr.Roles(nil).SelectByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestRegister_PolicyViolations(t *testing.T) {
	env := newProvisioningEnv(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, &RegisterRequest{Name: "John", Login: "john@example.com", Password: "abc"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "password must be at least")

	_, err = env.mgr.Accounts(nil).GetByLogin(ctx, "john@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRegister_HasherError(t *testing.T) {
	mgr := repomanager.NewMemoryRepositoryManager()
	store := mediastore.NewMemoryStore()
	svc := NewProvisioningService(nil, mgr, store, credentials.NewPolicy(),
		&fakeHasher{err: errors.New("entropy exhausted")}, testLogger(), models.RoleUser)

	_, err := svc.Register(context.Background(), validRequest())
	require.Error(t, err)
}
