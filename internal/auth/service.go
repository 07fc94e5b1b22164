package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/commune-social/commune/internal/shared"
)

// EventRecorder persists authentication events for auditing.
type EventRecorder interface {
	Record(ctx context.Context, event shared.AuthEvent) error
}

// RequestMeta carries per-request client attributes for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Service wraps authentication business rules.
type Service struct {
	repo    Repository
	hasher  Hasher
	tokens  *TokenManager
	events  EventRecorder
	lookups singleflight.Group
}

// NewService constructs a new Service. events may be nil, in which case no
// audit trail is written.
func NewService(repo Repository, hasher Hasher, tokens *TokenManager, events EventRecorder) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, events: events}
}

// Register creates an account for previously unused credentials and issues a
// bearer token for it. No token is issued and no row is written if any step
// fails. Duplicate identities yield shared.ErrDuplicateAccount whether they
// are caught by the pre-check or by the store's unique index.
func (s *Service) Register(ctx context.Context, name, email, password string, meta RequestMeta) (*Account, string, error) {
	email = NormalizeEmail(email)
	name = norm.NFC.String(strings.TrimSpace(name))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", shared.ErrDuplicateAccount
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	account := &Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    GravatarURL(email),
	}
	id, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return nil, "", err
	}
	account.ID = id

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, "", err
	}

	s.recordEvent(ctx, shared.AuthEvent{
		AccountID: id,
		Action:    shared.AuthActionRegister,
		Email:     email,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return account, token, nil
}

// Authenticate validates email/password credentials and issues a bearer token.
// Unknown identities and wrong passwords both fail with
// shared.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string, meta RequestMeta) (string, error) {
	email = NormalizeEmail(email)

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.recordDenied(ctx, 0, email, meta)
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		s.recordDenied(ctx, account.ID, email, meta)
		return "", shared.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", err
	}

	s.recordEvent(ctx, shared.AuthEvent{
		AccountID: account.ID,
		Action:    shared.AuthActionLogin,
		Email:     email,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return token, nil
}

// Lookup resolves an account by id. Concurrent lookups for the same account
// are collapsed into a single store query. The query runs on a detached
// context so the shared result does not inherit one caller's cancellation.
func (s *Service) Lookup(ctx context.Context, id int64) (*Account, error) {
	lookupCtx := context.WithoutCancel(ctx)
	result, err, _ := s.lookups.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return s.repo.FindByID(lookupCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Account), nil
}

// NormalizeEmail canonicalizes an identity key for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) recordEvent(ctx context.Context, event shared.AuthEvent) {
	if s.events == nil {
		return
	}
	// Audit writes are best effort and never fail the auth flow.
	_ = s.events.Record(ctx, event)
}

func (s *Service) recordDenied(ctx context.Context, accountID int64, email string, meta RequestMeta) {
	s.recordEvent(ctx, shared.AuthEvent{
		AccountID: accountID,
		Action:    shared.AuthActionLoginDenied,
		Email:     email,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
}
