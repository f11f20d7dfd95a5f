package app

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gwenythashlie/gadc-attendance-system/internal/attendance"
	"github.com/gwenythashlie/gadc-attendance-system/internal/audit"
	"github.com/gwenythashlie/gadc-attendance-system/internal/auth"
	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/dashboard"
	"github.com/gwenythashlie/gadc-attendance-system/internal/device"
	"github.com/gwenythashlie/gadc-attendance-system/internal/dtr"
	"github.com/gwenythashlie/gadc-attendance-system/internal/employee"
	"github.com/gwenythashlie/gadc-attendance-system/internal/messaging/kafka"
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/rbac"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	policy config.TapPolicy,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	deviceRepo := device.NewRepository(gormDB)
	dtrRepo := dtr.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	authService := auth.NewService(authRepo, auditService)
	dashboardService := dashboard.NewService(dashboardRepo, rdb, policy)
	deviceService := device.NewService(deviceRepo)
	dtrService := dtr.NewService(dtrRepo, employeeRepo, policy)
	employeeService := employee.NewService(db, employeeRepo, rdb)
	logService := attendance.NewLogService(attendanceRepo)
	tapService := attendance.NewTapService(db, attendanceRepo, employeeRepo, outboxRepo, auditService, policy)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(tapService, logService)
	auditHandler := audit.NewHandler(auditService)
	authHandler := auth.NewHandler(authService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	deviceHandler := device.NewHandler(deviceService)
	dtrHandler := dtr.NewHandler(dtrService)
	employeeHandler := employee.NewHandler(employeeService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{
				"status": "ok",
				"time":   time.Now().UTC().Format(time.RFC3339),
			}, nil)
		})

		attendance.RegisterRoutes(api, attendanceHandler, enforcer, middleware.DeviceAuth(device.NewAuthenticator(deviceService)))
		audit.RegisterRoutes(api, auditHandler, enforcer)
		auth.RegisterRoutes(api, authHandler)
		dashboard.RegisterRoutes(api, dashboardHandler, enforcer)
		device.RegisterRoutes(api, deviceHandler, enforcer)
		dtr.RegisterRoutes(api, dtrHandler, enforcer)
		employee.RegisterRoutes(api, employeeHandler, enforcer, rdb)
	}

	return nil
}
