package repository

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
	"github.com/BruksfildServices01/barbearia-console/internal/validators"
)

const KeyEmployees = "employees"

const (
	RoleManager   = "gerente"
	RoleBarber    = "barbeiro"
	RoleAssistant = "assistente"
)

const minPasswordLen = 6

var passwordCost = bcrypt.DefaultCost

func ValidRole(role string) bool {
	switch role {
	case RoleManager, RoleBarber, RoleAssistant:
		return true
	}
	return false
}

type EmployeeRepository struct {
	col   *Collection[models.Employee]
	clock timezone.Clock
}

func NewEmployeeRepository(store *storage.Adapter, clock timezone.Clock) *EmployeeRepository {
	return &EmployeeRepository{
		col: NewCollection(store, KeyEmployees, seedEmployees,
			func(e *models.Employee) string { return e.ID },
			func(e *models.Employee, id string) { e.ID = id },
		),
		clock: clock,
	}
}

func (r *EmployeeRepository) List(ctx context.Context) []models.Employee {
	return r.col.LoadAll(ctx)
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (models.Employee, error) {
	e, ok := r.col.Find(ctx, id)
	if !ok {
		return e, httperr.ErrBusinessMsg("not_found", "Funcionário não encontrado.")
	}
	return e, nil
}

// Resolve finds an employee by id, falling back to the first registered one.
func (r *EmployeeRepository) Resolve(ctx context.Context, id string) (models.Employee, bool) {
	all := r.col.LoadAll(ctx)
	for _, e := range all {
		if id != "" && e.ID == id {
			return e, true
		}
	}
	if len(all) == 0 {
		return models.Employee{}, false
	}
	return all[0], true
}

func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string) (models.Employee, bool) {
	if username == "" {
		return models.Employee{}, false
	}
	for _, e := range r.col.LoadAll(ctx) {
		if e.Credentials != nil && e.Credentials.Username == username {
			return e, true
		}
	}
	return models.Employee{}, false
}

func (r *EmployeeRepository) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	if e.Role == "" {
		e.Role = RoleBarber
	}
	e.ID = ""
	e.Credentials = &models.Credentials{}
	e.CreatedAt = r.clock()

	err := r.col.Apply(ctx, func(all []models.Employee) ([]models.Employee, error) {
		if err := validateEmployee(all, e); err != nil {
			return nil, err
		}
		e.ID = newID()
		return append(all, e), nil
	})
	return e, err
}

// Update merges patch and re-validates the result. Credentials are managed
// through SetCredentials only.
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch map[string]any) (models.Employee, error) {
	delete(patch, "credentials")

	var out models.Employee
	err := r.col.Apply(ctx, func(all []models.Employee) ([]models.Employee, error) {
		for i := range all {
			if all[i].ID != id {
				continue
			}
			merged := all[i]
			if err := mergePatch(&merged, patch); err != nil {
				return nil, httperr.ErrBusinessMsg("invalid_request", "Dados inválidos.")
			}
			merged.ID = id
			merged.Name = strings.TrimSpace(merged.Name)
			merged.Email = strings.TrimSpace(merged.Email)
			if err := validateEmployee(all, merged); err != nil {
				return nil, err
			}
			all[i] = merged
			out = merged
			return all, nil
		}
		return nil, r.col.missing(id)
	})
	return out, notFound(err, "Funcionário não encontrado.")
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.col.Remove(ctx, id), "Funcionário não encontrado.")
}

type CredentialsInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	Active          bool
}

func (r *EmployeeRepository) SetCredentials(ctx context.Context, id string, in CredentialsInput) (models.Employee, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return models.Employee{}, required("Nome de usuário é obrigatório!")
	case in.Password == "":
		return models.Employee{}, required("Senha é obrigatória!")
	case in.Password != in.ConfirmPassword:
		return models.Employee{}, httperr.ErrBusinessMsg("password_mismatch", "Senhas não coincidem!")
	case len(in.Password) < minPasswordLen:
		return models.Employee{}, httperr.ErrBusinessMsg("weak_password", "Senha deve ter pelo menos 6 caracteres!")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.Employee{}, err
	}

	var out models.Employee
	err = r.col.Apply(ctx, func(all []models.Employee) ([]models.Employee, error) {
		idx := -1
		for i := range all {
			if all[i].ID == id {
				idx = i
				continue
			}
			if all[i].Credentials != nil && all[i].Credentials.Username == username {
				return nil, httperr.ErrBusinessMsg("duplicate_username", "Este nome de usuário já está em uso!")
			}
		}
		if idx < 0 {
			return nil, r.col.missing(id)
		}
		all[idx].Credentials = &models.Credentials{
			Username: username,
			Password: hash,
			Active:   in.Active,
		}
		out = all[idx]
		return all, nil
	})
	return out, notFound(err, "Funcionário não encontrado.")
}

// CheckPassword compares against the stored bcrypt hash. A stored value that
// is not a hash is compared verbatim and flagged for upgrade.
func CheckPassword(stored, password string) (ok, legacy bool) {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	return stored != "" && stored == password, true
}

// UpgradePassword rehashes a legacy plain password after a successful login.
func (r *EmployeeRepository) UpgradePassword(ctx context.Context, id, password string) {
	hash, err := hashPassword(password)
	if err != nil {
		return
	}
	r.col.Mutate(ctx, id, func(e *models.Employee) error {
		if e.Credentials != nil {
			e.Credentials.Password = hash
		}
		return nil
	})
}

func validateEmployee(all []models.Employee, e models.Employee) error {
	if e.Name == "" {
		return required("Nome é obrigatório!")
	}
	if e.Commission < 0 || e.Commission > 100 {
		return httperr.ErrBusinessMsg("invalid_commission", "Porcentagem deve estar entre 0 e 100!")
	}
	if !ValidRole(e.Role) {
		return httperr.ErrBusinessMsg("invalid_role", "Cargo inválido.")
	}
	if e.Email != "" {
		if !validators.IsEmail(e.Email) {
			return httperr.ErrBusinessMsg("invalid_email", "Email inválido.")
		}
		for _, other := range all {
			if other.ID != e.ID && strings.EqualFold(other.Email, e.Email) {
				return httperr.ErrBusinessMsg("duplicate_email", "Este email já está em uso!")
			}
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && strings.HasPrefix(s, "$2")
}

func seedEmployees() []models.Employee {
	type seed struct {
		id, name, phone, username, password, role, notes string
		commission                                         float64
		created                                            time.Time
	}
	seeds := []seed{
		{"1", "Matheus", "(48) 93300-2321", "48933002321", "matheus2025", RoleManager, "Administrador", 50, seedDate(2024, 3, 1)},
		{"2", "Vitor", "(48) 99119-9474", "48991199474", "vitor2025", RoleManager, "Administrador", 50, seedDate(2024, 3, 5)},
		{"3", "Marcelo", "(48) 99620-1178", "48996201178", "marcelo2025", RoleManager, "Administrador", 50, seedDate(2024, 3, 10)},
		{"4", "Alisson", "(48) 98876-8443", "48988768443", "alisson2025", RoleBarber, "Barbeiro", 40, seedDate(2024, 4, 1)},
	}

	out := make([]models.Employee, 0, len(seeds))
	for _, s := range seeds {
		hash, err := hashPassword(s.password)
		if err != nil {
			hash = s.password
		}
		out = append(out, models.Employee{
			ID:         s.id,
			Name:       s.name,
			Phone:      s.phone,
			Email:      strings.ToLower(s.name) + "@barbearia.com",
			Role:       s.role,
			Commission: s.commission,
			Notes:      s.notes,
			Credentials: &models.Credentials{
				Username: s.username,
				Password: hash,
				Active:   true,
			},
			CreatedAt: s.created,
		})
	}
	return out
}

func seedDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
