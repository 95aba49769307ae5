package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

type ClientHandler struct {
	repo  *repository.ClientRepository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewClientHandler(repo *repository.ClientRepository, audit *audit.Dispatcher, clock timezone.Clock) *ClientHandler {
	return &ClientHandler{repo: repo, audit: audit, clock: clock}
}

// ClientView adds what the list screen derives from the stored record.
type ClientView struct {
	models.Client
	Age           int                       `json:"age"`
	PackageStatus *repository.PackageStatus `json:"packageStatus,omitempty"`
}

type AssignPackageRequest struct {
	Type      string  `json:"type"`
	StartDate string  `json:"startDate"`
	Price     float64 `json:"price"`
}

func (h *ClientHandler) view(cl models.Client) ClientView {
	now := h.clock()
	v := ClientView{Client: cl, Age: repository.AgeOn(cl.Birthdate, now)}
	if cl.Package != nil {
		st := repository.PackageStatusOn(cl.Package, timezone.DateKey(now))
		v.PackageStatus = &st
	}
	return v
}

// ======================================================
// LIST CLIENTS
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	var list []models.Client
	if q := c.Query("query"); q != "" {
		list = h.repo.Search(c.Request.Context(), q)
	} else {
		list = h.repo.List(c.Request.Context())
	}

	out := make([]ClientView, 0, len(list))
	for _, cl := range list {
		out = append(out, h.view(cl))
	}
	httpresp.List(c, out)
}

func (h *ClientHandler) Get(c *gin.Context) {
	cl, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, h.view(cl))
}

func (h *ClientHandler) Stats(c *gin.Context) {
	httpresp.OK(c, h.repo.Stats(c.Request.Context()))
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	var req models.Client
	if !bindJSON(c, &req) {
		return
	}

	cl, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "client_created", "client", cl.ID, gin.H{"name": cl.Name})
	httpresp.Created(c, h.view(cl))
}

func (h *ClientHandler) Update(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	cl, err := h.repo.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "client_updated", "client", cl.ID, nil)
	httpresp.OK(c, h.view(cl))
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "client_deleted", "client", id, nil)
	httpresp.NoContent(c)
}

// ======================================================
// PACKAGES
// ======================================================

func (h *ClientHandler) AssignPackage(c *gin.Context) {
	var req AssignPackageRequest
	if !bindJSON(c, &req) {
		return
	}

	cl, err := h.repo.AssignPackage(c.Request.Context(), c.Param("id"), req.Type, req.StartDate, req.Price)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "package_assigned", "client", cl.ID, gin.H{"type": req.Type})
	httpresp.OK(c, h.view(cl))
}

func (h *ClientHandler) UsePackageCut(c *gin.Context) {
	cl, err := h.repo.UsePackageCut(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "package_cut_used", "client", cl.ID, nil)
	httpresp.OK(c, h.view(cl))
}
