package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/barbearia-console/internal/audit"
	"github.com/BruksfildServices01/barbearia-console/internal/auth"
	"github.com/BruksfildServices01/barbearia-console/internal/backup"
	"github.com/BruksfildServices01/barbearia-console/internal/bus"
	"github.com/BruksfildServices01/barbearia-console/internal/config"
	"github.com/BruksfildServices01/barbearia-console/internal/datasync"
	"github.com/BruksfildServices01/barbearia-console/internal/handlers"
	"github.com/BruksfildServices01/barbearia-console/internal/metrics"
	"github.com/BruksfildServices01/barbearia-console/internal/middleware"
	"github.com/BruksfildServices01/barbearia-console/internal/repository"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbearia-console/internal/usecase/appointment"
)

// Deps is everything main builds once and the routes share.
type Deps struct {
	Config   *config.Config
	Store    *storage.Adapter
	Bus      *bus.Bus
	Clock    timezone.Clock
	Location *time.Location

	Engine    *datasync.Engine
	Auth      *auth.Service
	Audit     *audit.Dispatcher
	AuditSink audit.Sink
	Snapshots backup.Taker

	Appointments *repository.AppointmentRepository
	Clients      *repository.ClientRepository
	Employees    *repository.EmployeeRepository
	Expenses     *repository.ExpenseRepository
	Cash         *repository.CashLedger
	Catalog      *repository.Catalog

	Health map[string]handlers.Pinger
}

// RegisterRoutes wires the API. The returned hub must be closed on shutdown.
func RegisterRoutes(r *gin.Engine, d Deps) *handlers.SyncHub {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.Middleware())

	// ======================================================
	// USE CASES (APPOINTMENTS)
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		d.Appointments,
		d.Catalog,
		d.Clients,
		d.Audit,
	)

	walkInUC := ucAppointment.NewRegisterWalkInCut(
		d.Appointments,
		d.Catalog,
		d.Clients,
		d.Audit,
		d.Clock,
	)

	finishAppointmentUC := ucAppointment.NewFinishAppointment(
		d.Appointments,
		d.Catalog,
		d.Employees,
		d.Clients,
		d.Engine,
		d.Audit,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		d.Appointments,
		d.Audit,
	)

	togglePaidUC := ucAppointment.NewTogglePaid(
		d.Appointments,
		d.Audit,
	)

	listCalendarUC := ucAppointment.NewListCalendar(
		d.Appointments,
		d.Clock,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Auth, d.Config.JWTSecret)

	appointmentHandler := handlers.NewAppointmentHandler(
		d.Appointments,
		createAppointmentUC,
		walkInUC,
		finishAppointmentUC,
		cancelAppointmentUC,
		togglePaidUC,
		listCalendarUC,
	)

	clientHandler := handlers.NewClientHandler(d.Clients, d.Audit, d.Clock)
	employeeHandler := handlers.NewEmployeeHandler(d.Employees, d.Audit)
	expenseHandler := handlers.NewExpenseHandler(d.Expenses, d.Audit)
	cashHandler := handlers.NewCashHandler(d.Cash, d.Audit)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, d.Engine, d.Audit)
	syncHandler := handlers.NewSyncHandler(d.Engine)
	importHandler := handlers.NewImportHandler(d.Store, d.Engine, d.Config.ImportYear, d.Location, d.Clock, d.Audit)
	maintenanceHandler := handlers.NewMaintenanceHandler(d.Engine, d.Snapshots, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditSink)
	healthHandler := handlers.NewHealthHandler(d.Health)

	hub := handlers.NewSyncHub(d.Bus)

	// ======================================================
	// INFRA
	// ======================================================
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", middleware.AuthMiddleware(d.Config.JWTSecret), hub.Serve)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/remembered", authHandler.Remembered)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", authHandler.Me)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/calendar", appointmentHandler.Calendar)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/walk-in", appointmentHandler.WalkIn)
			secured.PATCH("/appointments/:id/finish", appointmentHandler.Finish)
			secured.PATCH("/appointments/:id/paid", appointmentHandler.TogglePaid)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)

			// ------------------------------
			// CLIENTS
			// ------------------------------
			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/stats", clientHandler.Stats)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.POST("/clients", clientHandler.Create)
			secured.PATCH("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)
			secured.PUT("/clients/:id/package", clientHandler.AssignPackage)
			secured.POST("/clients/:id/package/use", clientHandler.UsePackageCut)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/services", catalogHandler.ListServices)
			secured.GET("/products", catalogHandler.ListProducts)
			secured.POST("/products/:id/sell", catalogHandler.Sell)

			// ------------------------------
			// SYNC
			// ------------------------------
			secured.GET("/data/:key", syncHandler.GetData)
			secured.PUT("/data/:key", syncHandler.PutData)
			secured.GET("/activities", syncHandler.Activities)
			secured.GET("/completed-cuts", syncHandler.CompletedCuts)
			secured.GET("/metrics/realtime", syncHandler.Metrics)
		}

		// ------------------------------
		// BARBEIRO+ (caixa, despesas, catálogo)
		// ------------------------------
		staff := api.Group("/")
		staff.Use(
			middleware.AuthMiddleware(d.Config.JWTSecret),
			middleware.RequireRole(repository.RoleBarber),
		)
		{
			staff.GET("/cash/balance", cashHandler.Balance)
			staff.GET("/cash/transactions", cashHandler.Transactions)
			staff.POST("/cash/deposit", cashHandler.Deposit)
			staff.POST("/cash/withdraw", cashHandler.Withdraw)

			staff.GET("/expenses", expenseHandler.List)
			staff.GET("/expenses/stats", expenseHandler.Stats)
			staff.GET("/expenses/users", expenseHandler.Users)
			staff.GET("/expenses/:id", expenseHandler.Get)
			staff.POST("/expenses", expenseHandler.Create)
			staff.PATCH("/expenses/:id", expenseHandler.Update)
			staff.DELETE("/expenses/:id", expenseHandler.Delete)

			staff.POST("/services", catalogHandler.CreateService)
			staff.PATCH("/services/:id", catalogHandler.UpdateService)
			staff.DELETE("/services/:id", catalogHandler.DeleteService)
			staff.POST("/products", catalogHandler.CreateProduct)
			staff.PATCH("/products/:id", catalogHandler.UpdateProduct)
			staff.DELETE("/products/:id", catalogHandler.DeleteProduct)
		}

		// ------------------------------
		// GERENTE
		// ------------------------------
		manager := api.Group("/")
		manager.Use(
			middleware.AuthMiddleware(d.Config.JWTSecret),
			middleware.RequireRole(repository.RoleManager),
		)
		{
			manager.GET("/employees", employeeHandler.List)
			manager.GET("/employees/:id", employeeHandler.Get)
			manager.POST("/employees", employeeHandler.Create)
			manager.PATCH("/employees/:id", employeeHandler.Update)
			manager.DELETE("/employees/:id", employeeHandler.Delete)
			manager.PUT("/employees/:id/credentials", employeeHandler.SetCredentials)

			manager.GET("/commissions", syncHandler.Commissions)
			manager.GET("/commissions/export", syncHandler.ExportCommissions)

			manager.POST("/import/history", importHandler.Import)

			manager.POST("/maintenance/cleanup", maintenanceHandler.Cleanup)
			manager.POST("/maintenance/backup", maintenanceHandler.Backup)

			manager.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return hub
}
