package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
)

// ======================================================
// HANDLER
// ======================================================

type CatalogHandler struct {
	catalog *repository.Catalog
	engine  *datasync.Engine
	audit   *audit.Dispatcher
}

func NewCatalogHandler(catalog *repository.Catalog, engine *datasync.Engine, audit *audit.Dispatcher) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, engine: engine, audit: audit}
}

type SellProductRequest struct {
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
	ClientName    string `json:"clientName"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *CatalogHandler) ListServices(c *gin.Context) {
	httpresp.List(c, h.catalog.Services(c.Request.Context()))
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req models.Service
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "service_created", "service", s.ID, gin.H{"name": s.Name, "price": s.Price})
	httpresp.Created(c, s)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	s, err := h.catalog.UpdateService(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "service_updated", "service", s.ID, nil)
	httpresp.OK(c, s)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalog.DeleteService(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "service_deleted", "service", id, nil)
	httpresp.NoContent(c)
}

// ======================================================
// PRODUCTS
// ======================================================

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	httpresp.List(c, h.catalog.Products(c.Request.Context()))
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req models.Product
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "product_created", "product", p.ID, gin.H{"name": p.Name, "price": p.Price})
	httpresp.Created(c, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	patch, ok := bindPatch(c)
	if !ok {
		return
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "product_updated", "product", p.ID, nil)
	httpresp.OK(c, p)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		httperr.FromError(c, err)
		return
	}

	writeAudit(h.audit, c, "product_deleted", "product", id, nil)
	httpresp.NoContent(c)
}

// Sell takes the quantity out of stock and logs a product sale. Product
// sales go to the register only; they never count as cuts or commission.
func (h *CatalogHandler) Sell(c *gin.Context) {
	var req SellProductRequest
	if !bindJSON(c, &req) {
		return
	}

	method := req.PaymentMethod
	if method == "" {
		method = "dinheiro"
	}
	if !domain.ValidPaymentType(method) {
		httperr.BadRequest(c, "invalid_payment_type", "Forma de pagamento inválida.")
		return
	}

	p, err := h.catalog.TakeStock(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	sale := h.engine.RegisterSale(c.Request.Context(), models.Sale{
		Type:          models.SaleProduct,
		Description:   fmt.Sprintf("%dx %s", req.Quantity, p.Name),
		Amount:        p.Price * float64(req.Quantity),
		PaymentMethod: method,
		ClientName:    req.ClientName,
		Employee:      c.GetString(middleware.ContextEmployeeName),
		EmployeeID:    middleware.EmployeeID(c),
	})
	metrics.SalesRegistered.WithLabelValues(models.SaleProduct).Inc()

	h.engine.AddRecentActivity(c.Request.Context(), datasync.ActivityInput{
		Type:        "sale",
		Title:       "Venda Registrada",
		Description: fmt.Sprintf("%s (%s)", sale.Description, domain.PaymentTypeName(method)),
	})

	writeAudit(h.audit, c, "product_sold", "product", p.ID, gin.H{"quantity": req.Quantity, "amount": sale.Amount})

	httpresp.Created(c, gin.H{
		"product": p,
		"sale":    sale,
	})
}
