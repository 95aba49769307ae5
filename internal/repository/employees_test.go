package repository

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

func TestEmployeeSeedsAreHashed(t *testing.T) {
	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	e, ok := repo.FindByUsername(ctx, "48988768443")
	if !ok || e.Name != "Alisson" || e.Role != RoleBarber || e.Commission != 40 {
		t.Fatalf("seed %+v", e)
	}
	if e.Credentials.Password == "alisson2025" {
		t.Fatal("seed password stored in clear")
	}
	if ok, legacy := CheckPassword(e.Credentials.Password, "alisson2025"); !ok || legacy {
		t.Fatalf("check ok=%v legacy=%v", ok, legacy)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	cases := []struct {
		name string
		in   models.Employee
		code string
	}{
		{"no name", models.Employee{Commission: 10}, "required_field"},
		{"commission high", models.Employee{Name: "A", Commission: 101}, "invalid_commission"},
		{"commission negative", models.Employee{Name: "A", Commission: -1}, "invalid_commission"},
		{"bad role", models.Employee{Name: "A", Role: "dono"}, "invalid_role"},
		{"duplicate email", models.Employee{Name: "A", Email: "Matheus@barbearia.com"}, "duplicate_email"},
		{"bad email", models.Employee{Name: "A", Email: "matheus@"}, "invalid_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := repo.Create(ctx, tc.in); !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}

	e, err := repo.Create(ctx, models.Employee{Name: "Bruno", Commission: 35})
	if err != nil {
		t.Fatal(err)
	}
	if e.Role != RoleBarber || e.Credentials == nil || e.Credentials.Active {
		t.Fatalf("new employee %+v", e)
	}
}

func TestUpdateEmployeeKeepsCredentials(t *testing.T) {
	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	e, err := repo.Update(ctx, "4", map[string]any{
		"commission":  45,
		"credentials": map[string]any{"username": "hacker"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Commission != 45 || e.Credentials.Username != "48988768443" {
		t.Fatalf("updated %+v", e)
	}

	if _, err := repo.Update(ctx, "4", map[string]any{"commission": 150}); !httperr.IsBusiness(err, "invalid_commission") {
		t.Fatalf("err = %v", err)
	}
	if _, err := repo.Update(ctx, "404", map[string]any{"name": "x"}); !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("err = %v", err)
	}
}

func TestSetCredentials(t *testing.T) {
	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CredentialsInput
		code string
	}{
		{"no username", CredentialsInput{Password: "segredo1", ConfirmPassword: "segredo1"}, "required_field"},
		{"no password", CredentialsInput{Username: "novo"}, "required_field"},
		{"mismatch", CredentialsInput{Username: "novo", Password: "segredo1", ConfirmPassword: "segredo2"}, "password_mismatch"},
		{"short", CredentialsInput{Username: "novo", Password: "abc", ConfirmPassword: "abc"}, "weak_password"},
		{"taken", CredentialsInput{Username: "48933002321", Password: "segredo1", ConfirmPassword: "segredo1"}, "duplicate_username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := repo.SetCredentials(ctx, "4", tc.in); !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}

	// keeping one's own username is fine
	e, err := repo.SetCredentials(ctx, "4", CredentialsInput{
		Username: "48988768443", Password: "nova-senha", ConfirmPassword: "nova-senha", Active: false,
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.Credentials.Active {
		t.Fatal("should be inactive")
	}
	if ok, _ := CheckPassword(e.Credentials.Password, "nova-senha"); !ok {
		t.Fatal("new password does not verify")
	}
}

func TestLegacyPasswordUpgrade(t *testing.T) {
	store := newStore()
	ctx := context.Background()
	store.Put(ctx, KeyEmployees, []models.Employee{{
		ID: "9", Name: "Antigo", Role: RoleBarber,
		Credentials: &models.Credentials{Username: "antigo", Password: "plain123", Active: true},
	}})
	repo := NewEmployeeRepository(store, fixedClock())

	e, _ := repo.FindByUsername(ctx, "antigo")
	ok, legacy := CheckPassword(e.Credentials.Password, "plain123")
	if !ok || !legacy {
		t.Fatalf("ok=%v legacy=%v", ok, legacy)
	}

	repo.UpgradePassword(ctx, "9", "plain123")

	e, _ = repo.FindByUsername(ctx, "antigo")
	if ok, legacy := CheckPassword(e.Credentials.Password, "plain123"); !ok || legacy {
		t.Fatalf("after upgrade ok=%v legacy=%v", ok, legacy)
	}
}

func TestResolveFallsBackToFirst(t *testing.T) {
	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	if e, _ := repo.Resolve(ctx, "3"); e.Name != "Marcelo" {
		t.Fatalf("got %s", e.Name)
	}
	if e, _ := repo.Resolve(ctx, ""); e.Name != "Matheus" {
		t.Fatalf("got %s", e.Name)
	}
}

func TestMissingEmployeeIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	repo := NewEmployeeRepository(newStore(), fixedClock())
	ctx := context.Background()

	if _, err := repo.Update(ctx, "404", map[string]any{"name": "X"}); !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(buf.String(), `employees: id "404" not found`) {
		t.Fatalf("update not logged: %q", buf.String())
	}

	buf.Reset()
	in := CredentialsInput{Username: "novo", Password: "segredo1", ConfirmPassword: "segredo1"}
	if _, err := repo.SetCredentials(ctx, "404", in); !httperr.IsBusiness(err, "not_found") {
		t.Fatalf("credentials: %v", err)
	}
	if !strings.Contains(buf.String(), `employees: id "404" not found`) {
		t.Fatalf("credentials not logged: %q", buf.String())
	}
}
