package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/httpresp"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	ucappointment "github.com/BruksfildServices01/barbearia-console/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	repo *repository.AppointmentRepository

	create   *ucappointment.CreateAppointment
	walkIn   *ucappointment.RegisterWalkInCut
	finish   *ucappointment.FinishAppointment
	cancel   *ucappointment.CancelAppointment
	paid     *ucappointment.TogglePaid
	calendar *ucappointment.ListCalendar
}

func NewAppointmentHandler(
	repo *repository.AppointmentRepository,
	create *ucappointment.CreateAppointment,
	walkIn *ucappointment.RegisterWalkInCut,
	finish *ucappointment.FinishAppointment,
	cancel *ucappointment.CancelAppointment,
	paid *ucappointment.TogglePaid,
	calendar *ucappointment.ListCalendar,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:     repo,
		create:   create,
		walkIn:   walkIn,
		finish:   finish,
		cancel:   cancel,
		paid:     paid,
		calendar: calendar,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"clientName"`
	NewClient   bool   `json:"newClient"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceType string `json:"serviceType"`
	Notes       string `json:"notes"`
}

type WalkInRequest struct {
	ClientName  string `json:"clientName"`
	NewClient   bool   `json:"newClient"`
	ServiceType string `json:"serviceType"`
	Notes       string `json:"notes"`
}

type FinishAppointmentRequest struct {
	PaymentType string `json:"paymentType"`
	Paid        bool   `json:"paid"`
	Notes       string `json:"notes"`
	EmployeeID  string `json:"employeeId"`
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	httpresp.List(c, h.repo.List(c.Request.Context()))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// GET /appointments/calendar?view=week&date=2024-07-21
func (h *AppointmentHandler) Calendar(c *gin.Context) {
	cal, err := h.calendar.Execute(c.Request.Context(), ucappointment.ListCalendarInput{
		View:   c.DefaultQuery("view", "day"),
		Anchor: c.Query("date"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, cal)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucappointment.CreateAppointmentInput{
		ActorID:     middleware.EmployeeID(c),
		ClientName:  req.ClientName,
		NewClient:   req.NewClient,
		Date:        req.Date,
		Time:        req.Time,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) WalkIn(c *gin.Context) {
	var req WalkInRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.walkIn.Execute(c.Request.Context(), ucappointment.RegisterWalkInCutInput{
		ActorID:     middleware.EmployeeID(c),
		ClientName:  req.ClientName,
		NewClient:   req.NewClient,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Finish(c *gin.Context) {
	var req FinishAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.finish.Execute(c.Request.Context(), ucappointment.FinishAppointmentInput{
		ActorID:       middleware.EmployeeID(c),
		AppointmentID: c.Param("id"),
		PaymentType:   req.PaymentType,
		Paid:          req.Paid,
		Notes:         req.Notes,
		EmployeeID:    req.EmployeeID,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AppointmentHandler) TogglePaid(c *gin.Context) {
	ap, err := h.paid.Execute(c.Request.Context(), middleware.EmployeeID(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	if err := h.cancel.Execute(c.Request.Context(), middleware.EmployeeID(c), c.Param("id")); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
