package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
)

var testNow = time.Date(2024, 7, 21, 9, 0, 0, 0, time.UTC)

type writeCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (w *writeCounter) Publish(key string, _ json.RawMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.counts[key]++
}

func (w *writeCounter) count(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[key]
}

type fakeRemote struct {
	id    Identity
	err   error
	block bool
	calls int
}

func (f *fakeRemote) Verify(ctx context.Context, _, _ string) (Identity, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return Identity{}, ctx.Err()
	}
	return f.id, f.err
}

type fixture struct {
	svc       *Service
	store     *storage.Adapter
	writes    *writeCounter
	employees *repository.EmployeeRepository
	now       *time.Time
}

func newFixture(t *testing.T, remote RemoteVerifier) *fixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	writes := &writeCounter{counts: map[string]int{}}
	store := storage.NewAdapter(storage.NewMemoryBackend(), writes)
	store.Put(context.Background(), repository.KeyEmployees, []models.Employee{
		{ID: "1", Name: "Matheus", Role: "gerente", Credentials: &models.Credentials{Username: "matheus", Password: string(hash), Active: true}},
		{ID: "2", Name: "Rafa", Role: "barbeiro", Credentials: &models.Credentials{Username: "rafa", Password: "antiga123", Active: true}},
		{ID: "3", Name: "Lia", Role: "assistente", Credentials: &models.Credentials{Username: "lia", Password: string(hash), Active: false}},
	})

	now := testNow
	clock := func() time.Time { return now }
	employees := repository.NewEmployeeRepository(store, clock)

	var opts Options
	opts.Clock = clock
	opts.SessionTTL = time.Hour
	opts.RemoteTimeout = 20 * time.Millisecond
	if remote != nil {
		opts.Remote = remote
	}

	return &fixture{
		svc:       NewService(employees, store, opts),
		store:     store,
		writes:    writes,
		employees: employees,
		now:       &now,
	}
}

func TestAuthenticateLocal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sess, err := f.svc.Authenticate(ctx, LoginInput{Username: "matheus", Password: "segredo1", Remember: true})
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != "1" || sess.Role != "gerente" || !sess.ExpiresAt.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("session = %+v", sess)
	}
	if f.writes.count(KeyCurrentUser) != 1 {
		t.Fatalf("session writes = %d", f.writes.count(KeyCurrentUser))
	}
	if f.svc.RememberedUser(ctx) != "matheus" {
		t.Fatal("username should be remembered")
	}
}

func TestAuthenticateRejections(t *testing.T) {
	tests := []struct {
		name, user, pass string
	}{
		{"wrong password", "matheus", "errada"},
		{"unknown user", "ninguem", "segredo1"},
		{"inactive", "lia", "segredo1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.svc.Authenticate(context.Background(), LoginInput{Username: tt.user, Password: tt.pass})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v", err)
			}
			if f.writes.count(KeyCurrentUser) != 0 {
				t.Fatal("no session should be written")
			}
		})
	}
}

func TestLegacyPasswordUpgraded(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Authenticate(ctx, LoginInput{Username: "rafa", Password: "antiga123"}); err != nil {
		t.Fatal(err)
	}

	emp, _ := f.employees.FindByUsername(ctx, "rafa")
	if !strings.HasPrefix(emp.Credentials.Password, "$2") {
		t.Fatalf("password not upgraded: %q", emp.Credentials.Password)
	}
	if _, err := f.svc.Authenticate(ctx, LoginInput{Username: "rafa", Password: "antiga123"}); err != nil {
		t.Fatalf("login after upgrade: %v", err)
	}
}

func TestRemoteWinsWithSingleWrite(t *testing.T) {
	remote := &fakeRemote{id: Identity{ID: "r-9", Name: "Remoto", Role: "barbeiro"}}
	f := newFixture(t, remote)

	sess, err := f.svc.Authenticate(context.Background(), LoginInput{Username: "matheus", Password: "segredo1"})
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != "r-9" {
		t.Fatalf("session = %+v", sess)
	}
	if remote.calls != 1 || f.writes.count(KeyCurrentUser) != 1 {
		t.Fatalf("calls=%d writes=%d", remote.calls, f.writes.count(KeyCurrentUser))
	}
}

func TestRemoteFailureFallsBackToLocal(t *testing.T) {
	tests := []struct {
		name   string
		remote *fakeRemote
	}{
		{"error", &fakeRemote{err: errors.New("connection refused")}},
		{"rejected", &fakeRemote{err: errRemoteRejected}},
		{"timeout", &fakeRemote{block: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.remote)

			sess, err := f.svc.Authenticate(context.Background(), LoginInput{Username: "matheus", Password: "segredo1"})
			if err != nil {
				t.Fatal(err)
			}
			if sess.ID != "1" {
				t.Fatalf("session = %+v", sess)
			}
			if f.writes.count(KeyCurrentUser) != 1 {
				t.Fatalf("session writes = %d", f.writes.count(KeyCurrentUser))
			}
		})
	}
}

func TestCurrentSessionExpires(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Current(ctx); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("no session: err = %v", err)
	}

	if _, err := f.svc.Authenticate(ctx, LoginInput{Username: "matheus", Password: "segredo1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Current(ctx); err != nil {
		t.Fatalf("fresh session: %v", err)
	}

	*f.now = testNow.Add(time.Hour)
	if _, err := f.svc.Current(ctx); !httperr.IsBusiness(err, "session_expired") {
		t.Fatalf("expired: err = %v", err)
	}
	if f.store.Has(ctx, KeyCurrentUser) {
		t.Fatal("expired session should be removed")
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.svc.Authenticate(ctx, LoginInput{Username: "matheus", Password: "segredo1", Remember: true})
	f.svc.Logout(ctx)

	if f.store.Has(ctx, KeyCurrentUser) {
		t.Fatal("session should be gone")
	}
	if f.svc.RememberedUser(ctx) != "matheus" {
		t.Fatal("remembered user survives logout")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role, required string
		want           bool
	}{
		{"gerente", "gerente", true},
		{"gerente", "assistente", true},
		{"barbeiro", "barbeiro", true},
		{"barbeiro", "gerente", false},
		{"assistente", "barbeiro", false},
		{"recepcionista", "assistente", true},
		{"", "assistente", false},
		{"gerente", "dono", false},
	}
	for _, tt := range tests {
		if got := HasPermission(tt.role, tt.required); got != tt.want {
			t.Errorf("HasPermission(%q, %q) = %v", tt.role, tt.required, got)
		}
	}
}
