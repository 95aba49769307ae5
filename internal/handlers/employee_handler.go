package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
)

type EmployeeHandler struct {
	repo  *repository.EmployeeRepository
	audit *audit.Dispatcher
}

func NewEmployeeHandler(repo *repository.EmployeeRepository, audit *audit.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{repo: repo, audit: audit}
}

type CredentialsRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Active          bool   `json:"active"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list := h.repo.List(c.Request.Context())
	out := make([]models.PublicEmployee, 0, len(list))
	for _, e := range list {
		out = append(out, e.Public())
	}
	httpresp.List(c, out)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	e, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, e.Public())
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req models.Employee
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "employee_created", "employee", e.ID, gin.H{"name": e.Name, "role": e.Role})
	httpresp.Created(c, e.Public())
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	e, err := h.repo.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "employee_updated", "employee", e.ID, nil)
	httpresp.OK(c, e.Public())
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "employee_deleted", "employee", id, nil)
	httpresp.NoContent(c)
}

func (h *EmployeeHandler) SetCredentials(c *gin.Context) {
	var req CredentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.repo.SetCredentials(c.Request.Context(), c.Param("id"), repository.CredentialsInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Active:          req.Active,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "credentials_updated", "employee", e.ID, gin.H{"active": req.Active})
	httpresp.OK(c, e.Public())
}
