package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

const (
	KeyCurrentUser    = "currentUser"
	KeyRememberedUser = "rememberedUser"
)

var (
	ErrInvalidCredentials = httperr.ErrBusinessMsg("invalid_credentials", "Usuário ou senha incorretos!")
	ErrSessionExpired     = httperr.ErrBusinessMsg("session_expired", "Sessão expirada. Faça login novamente.")
)

type Options struct {
	Remote        RemoteVerifier
	RemoteTimeout time.Duration
	SessionTTL    time.Duration
	Clock         timezone.Clock
}

// Service is the login gate. A configured remote verifier is asked first;
// any failure there falls back to the local employee registry.
type Service struct {
	employees *repository.EmployeeRepository
	store     *storage.Adapter
	remote    RemoteVerifier
	timeout   time.Duration
	ttl       time.Duration
	clock     timezone.Clock
}

func NewService(employees *repository.EmployeeRepository, store *storage.Adapter, opts Options) *Service {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 10 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = timezone.Now
	}
	return &Service{
		employees: employees,
		store:     store,
		remote:    opts.Remote,
		timeout:   opts.RemoteTimeout,
		ttl:       opts.SessionTTL,
		clock:     opts.Clock,
	}
}

type LoginInput struct {
	Username string
	Password string
	Remember bool
}

// Authenticate writes exactly one session record on success. Failures never
// say which part of the credentials was wrong.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (models.Session, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return models.Session{}, ErrInvalidCredentials
	}

	id, ok := s.verifyRemote(ctx, username, in.Password)
	if !ok {
		id, ok = s.verifyLocal(ctx, username, in.Password)
	}
	if !ok {
		log.Printf("[auth] login rejected for %q", username)
		return models.Session{}, ErrInvalidCredentials
	}

	now := s.clock()
	sess := models.Session{
		ID:        id.ID,
		Name:      id.Name,
		Role:      id.Role,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if !s.store.Put(ctx, KeyCurrentUser, sess) {
		return models.Session{}, errors.New("auth: session not persisted")
	}

	if in.Remember {
		s.store.Put(ctx, KeyRememberedUser, username)
	} else {
		s.store.Remove(ctx, KeyRememberedUser)
	}

	log.Printf("[auth] %s logged in as %s", sess.Name, sess.Role)
	return sess, nil
}

func (s *Service) verifyRemote(ctx context.Context, username, password string) (Identity, bool) {
	if s.remote == nil {
		return Identity{}, false
	}

	rctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.remote.Verify(rctx, username, password)
	if err != nil {
		log.Printf("[auth] remote verification unavailable, using local registry: %v", err)
		return Identity{}, false
	}
	return id, true
}

func (s *Service) verifyLocal(ctx context.Context, username, password string) (Identity, bool) {
	emp, found := s.employees.FindByUsername(ctx, username)
	if !found || emp.Credentials == nil || !emp.Credentials.Active {
		return Identity{}, false
	}

	ok, legacy := repository.CheckPassword(emp.Credentials.Password, password)
	if !ok {
		return Identity{}, false
	}
	if legacy {
		s.employees.UpgradePassword(ctx, emp.ID, password)
	}
	return Identity{ID: emp.ID, Name: emp.Name, Role: emp.Role}, true
}

// Current returns the stored session. An expired session is removed and
// reported as ErrSessionExpired.
func (s *Service) Current(ctx context.Context) (models.Session, error) {
	if !s.store.Has(ctx, KeyCurrentUser) {
		return models.Session{}, ErrInvalidCredentials
	}

	sess := storage.Get(ctx, s.store, KeyCurrentUser, models.Session{})
	if sess.ID == "" {
		s.store.Remove(ctx, KeyCurrentUser)
		return models.Session{}, ErrInvalidCredentials
	}
	if sess.Expired(s.clock()) {
		s.store.Remove(ctx, KeyCurrentUser)
		return models.Session{}, ErrSessionExpired
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.store.Remove(ctx, KeyCurrentUser)
}

func (s *Service) RememberedUser(ctx context.Context) string {
	return storage.Get(ctx, s.store, KeyRememberedUser, "")
}
