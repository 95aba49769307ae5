package repository

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
	"github.com/BruksfildServices01/barbearia-console/internal/validators"
)

const KeyClients = "clients"

const packageValidityDays = 30

// PackagePlan describes one of the prepaid cut bundles.
type PackagePlan struct {
	Cuts  int
	Price float64
}

var packagePlans = map[string]PackagePlan{
	"basic":   {Cuts: 4, Price: 120},
	"premium": {Cuts: 6, Price: 150},
	"vip":     {Cuts: 8, Price: 180},
}

func PackagePlanFor(kind string) (PackagePlan, bool) {
	p, ok := packagePlans[kind]
	return p, ok
}

type PackageStatus struct {
	Active bool   `json:"active"`
	Text   string `json:"text"`
}

// PackageStatusOn reports whether pkg is usable on the given day. It is
// expired once today is after EndDate or every cut has been used.
func PackageStatusOn(pkg *models.ClientPackage, today string) PackageStatus {
	if pkg == nil {
		return PackageStatus{}
	}
	if today > pkg.EndDate || pkg.UsedCuts >= pkg.TotalCuts {
		return PackageStatus{Active: false, Text: "Expirado"}
	}
	return PackageStatus{Active: true, Text: "Ativo"}
}

// AgeOn returns the age in whole years on now, or -1 without a birthdate.
func AgeOn(birthdate string, now time.Time) int {
	birth, err := timezone.ParseDate(birthdate, now.Location())
	if err != nil {
		return -1
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

type ClientStats struct {
	TotalClients   int `json:"totalClients"`
	ActivePackages int `json:"activePackages"`
	TotalCuts      int `json:"totalCuts"`
}

type ClientRepository struct {
	col   *Collection[models.Client]
	clock timezone.Clock
}

func NewClientRepository(store *storage.Adapter, clock timezone.Clock) *ClientRepository {
	return &ClientRepository{
		col: NewCollection(store, KeyClients, seedClients,
			func(c *models.Client) string { return c.ID },
			func(c *models.Client, id string) { c.ID = id },
		),
		clock: clock,
	}
}

func (r *ClientRepository) List(ctx context.Context) []models.Client {
	return r.col.LoadAll(ctx)
}

func (r *ClientRepository) Get(ctx context.Context, id string) (models.Client, error) {
	c, ok := r.col.Find(ctx, id)
	if !ok {
		return c, httperr.ErrBusinessMsg("not_found", "Cliente não encontrado.")
	}
	return c, nil
}

func (r *ClientRepository) FindByName(ctx context.Context, name string) (models.Client, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, c := range r.col.LoadAll(ctx) {
		if strings.ToLower(c.Name) == name {
			return c, true
		}
	}
	return models.Client{}, false
}

func (r *ClientRepository) Create(ctx context.Context, c models.Client) (models.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, required("Nome é obrigatório!")
	}
	c.Email = strings.TrimSpace(c.Email)
	if c.Email != "" && !validators.IsEmail(c.Email) {
		return c, httperr.ErrBusinessMsg("invalid_email", "Email inválido.")
	}
	c.ID = ""
	c.CutsCount = 0
	c.Package = nil
	c.CreatedAt = r.clock()
	return r.col.Add(ctx, c)
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch map[string]any) (models.Client, error) {
	if v, ok := patch["name"]; ok {
		if s, _ := v.(string); strings.TrimSpace(s) == "" {
			return models.Client{}, required("Nome é obrigatório!")
		}
	}
	if v, ok := patch["email"]; ok {
		if s, _ := v.(string); s != "" && !validators.IsEmail(s) {
			return models.Client{}, httperr.ErrBusinessMsg("invalid_email", "Email inválido.")
		}
	}
	c, err := r.col.Update(ctx, id, patch)
	return c, notFound(err, "Cliente não encontrado.")
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.col.Remove(ctx, id), "Cliente não encontrado.")
}

// Search matches name and email case-insensitively, phone verbatim.
func (r *ClientRepository) Search(ctx context.Context, term string) []models.Client {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx)
	}
	lower := strings.ToLower(term)
	return r.col.Filter(ctx, func(c models.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), lower) ||
			(c.Phone != "" && strings.Contains(c.Phone, term)) ||
			(c.Email != "" && strings.Contains(strings.ToLower(c.Email), lower))
	})
}

// AssignPackage replaces the client's package. A zero price takes the plan
// default.
func (r *ClientRepository) AssignPackage(ctx context.Context, id, kind, startDate string, price float64) (models.Client, error) {
	plan, ok := PackagePlanFor(kind)
	if !ok || startDate == "" {
		return models.Client{}, required("Preencha todos os campos!")
	}
	start, err := timezone.ParseDate(startDate, r.clock().Location())
	if err != nil {
		return models.Client{}, httperr.ErrBusinessMsg("invalid_date", "Data inválida.")
	}
	if price <= 0 {
		price = plan.Price
	}

	pkg := &models.ClientPackage{
		Type:      kind,
		StartDate: startDate,
		EndDate:   timezone.DateKey(start.AddDate(0, 0, packageValidityDays)),
		TotalCuts: plan.Cuts,
		UsedCuts:  0,
		Price:     price,
		Active:    true,
	}

	c, err := r.col.Mutate(ctx, id, func(c *models.Client) error {
		c.Package = pkg
		return nil
	})
	return c, notFound(err, "Cliente não encontrado.")
}

// UsePackageCut consumes one cut of an active package.
func (r *ClientRepository) UsePackageCut(ctx context.Context, id string) (models.Client, error) {
	today := timezone.DateKey(r.clock())
	c, err := r.col.Mutate(ctx, id, func(c *models.Client) error {
		if !PackageStatusOn(c.Package, today).Active {
			return httperr.ErrBusinessMsg("package_inactive", "Pacote expirado ou inexistente.")
		}
		c.Package.UsedCuts++
		c.Package.Active = PackageStatusOn(c.Package, today).Active
		return nil
	})
	return c, notFound(err, "Cliente não encontrado.")
}

// RecordCut bumps the cut counter of the client with that name, if any.
func (r *ClientRepository) RecordCut(ctx context.Context, name string) {
	c, ok := r.FindByName(ctx, name)
	if !ok {
		return
	}
	r.col.Mutate(ctx, c.ID, func(c *models.Client) error {
		c.CutsCount++
		return nil
	})
}

func (r *ClientRepository) Stats(ctx context.Context) ClientStats {
	today := timezone.DateKey(r.clock())
	var s ClientStats
	for _, c := range r.col.LoadAll(ctx) {
		s.TotalClients++
		s.TotalCuts += c.CutsCount
		if PackageStatusOn(c.Package, today).Active {
			s.ActivePackages++
		}
	}
	return s
}

func seedClients() []models.Client {
	return []models.Client{
		{
			ID:        "1",
			Name:      "João Silva",
			Phone:     "(11) 99999-9999",
			Email:     "joao@email.com",
			Birthdate: "1990-05-15",
			Notes:     "Prefere corte baixo nas laterais",
			CutsCount: 12,
			Package: &models.ClientPackage{
				Type: "basic", StartDate: "2025-01-01", EndDate: "2025-01-31",
				TotalCuts: 4, UsedCuts: 2, Price: 120, Active: true,
			},
			CreatedAt: seedDate(2024, 12, 1),
		},
		{
			ID:        "2",
			Name:      "Pedro Santos",
			Phone:     "(11) 88888-8888",
			Email:     "pedro@email.com",
			Birthdate: "1985-08-22",
			Notes:     "Alérgico a produtos com álcool",
			CutsCount: 8,
			CreatedAt: seedDate(2024, 12, 15),
		},
		{
			ID:        "3",
			Name:      "Carlos Oliveira",
			Phone:     "(11) 77777-7777",
			Email:     "carlos@email.com",
			Birthdate: "1992-03-10",
			CutsCount: 15,
			Package: &models.ClientPackage{
				Type: "premium", StartDate: "2024-12-01", EndDate: "2024-12-31",
				TotalCuts: 6, UsedCuts: 6, Price: 150, Active: false,
			},
			CreatedAt: seedDate(2024, 11, 20),
		},
	}
}
