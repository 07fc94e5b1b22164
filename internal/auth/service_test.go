package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/commune-social/commune/internal/shared"
)

type stubRepo struct {
	accounts      map[string]*Account
	nextID        int64
	findByIDCalls int
	findErr       error
}

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[string]*Account), nextID: 1}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	account, ok := s.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return account, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*Account, error) {
	s.findByIDCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, account := range s.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) CreateAccount(ctx context.Context, account *Account) (int64, error) {
	if _, exists := s.accounts[account.Email]; exists {
		return 0, shared.ErrDuplicateAccount
	}
	id := s.nextID
	s.nextID++
	stored := *account
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.accounts[account.Email] = &stored
	return id, nil
}

var _ Repository = (*stubRepo)(nil)

type stubRecorder struct {
	events []shared.AuthEvent
}

func (s *stubRecorder) Record(ctx context.Context, event shared.AuthEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(repo Repository, events EventRecorder) *Service {
	return NewService(repo, NewHasher(bcrypt.MinCost), NewTokenManager("testsecret", time.Hour), events)
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	repo := newStubRepo()
	recorder := &stubRecorder{}
	svc := newTestService(repo, recorder)

	account, token, err := svc.Register(context.Background(), "Ann", " Ann@X.com ", "Secret123", RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "ann@x.com", account.Email)
	assert.Contains(t, account.AvatarURL, "gravatar.com/avatar/")

	accountID, err := svc.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, accountID)

	require.Len(t, recorder.events, 1)
	assert.Equal(t, shared.AuthActionRegister, recorder.events[0].Action)
	assert.Equal(t, "10.0.0.1", recorder.events[0].IP)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	_, _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	stored := repo.accounts["ann@x.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Secret123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	_, token, err := svc.Register(ctx, "Imposter", "ann@x.com", "Another1", RequestMeta{})
	require.ErrorIs(t, err, shared.ErrDuplicateAccount)
	assert.Empty(t, token)
	assert.Len(t, repo.accounts, 1)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	account, _, err := svc.Register(ctx, "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	token, err := svc.Authenticate(ctx, "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	accountID, err := svc.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, accountID)
}

func TestAuthenticateFailuresAreGeneric(t *testing.T) {
	repo := newStubRepo()
	recorder := &stubRecorder{}
	svc := newTestService(repo, recorder)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	_, wrongPass := svc.Authenticate(ctx, "ann@x.com", "wrongpass", RequestMeta{})
	_, unknown := svc.Authenticate(ctx, "nobody@x.com", "Secret123", RequestMeta{})

	assert.ErrorIs(t, wrongPass, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, shared.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())

	var denied int
	for _, event := range recorder.events {
		if event.Action == shared.AuthActionLoginDenied {
			denied++
		}
	}
	assert.Equal(t, 2, denied)
}

func TestAuthenticateStoreFailureIsNotCredentialError(t *testing.T) {
	repo := newStubRepo()
	repo.findErr = errors.New("connection refused")
	svc := newTestService(repo, nil)

	_, err := svc.Authenticate(context.Background(), "ann@x.com", "Secret123", RequestMeta{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLookup(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	account, _, err := svc.Register(ctx, "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	found, err := svc.Lookup(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, found.Email)

	_, err = svc.Lookup(ctx, 9999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLookupNotPoisonedByCanceledCaller(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, nil)

	account, _, err := svc.Register(context.Background(), "Ann", "ann@x.com", "Secret123", RequestMeta{})
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	found, err := svc.Lookup(canceled, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, found.Email)
}
