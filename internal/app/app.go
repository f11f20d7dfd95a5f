package app

import (
	"os"

	"github.com/gwenythashlie/gadc-attendance-system/internal/config"
	"github.com/gwenythashlie/gadc-attendance-system/internal/middleware"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module's routes
// on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// The cache is an optimization; the system serves without it.
		zap.L().Warn("redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	policy, err := config.LoadTapPolicy()
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, db, gormDB, rdb, policy)
}
