package web

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"fairshare/db/db"
	"fairshare/db/mem"
	"fairshare/db/pg"
	"fairshare/mq/gcppubsub"
	"fairshare/mq/goch"
	"fairshare/mq/mq"
	"fairshare/mq/rabbit"
)

type MqMode string

const (
	MqModeGoChan    MqMode = "go_chan"
	MqModeRabbit    MqMode = "rabbitmq"
	MqModeGCPPubSub MqMode = "gcp_pub_sub"
)

type DBMode string

const (
	DBModeMemory   DBMode = "memory"
	DBModePostgres DBMode = "postgres"
)

type ServiceConfig struct {
	IsDev  bool
	Port   string
	MqMode MqMode
	DBMode DBMode
}

func newDBWrapper(cfg ServiceConfig) db.GroupDBWrapper {
	switch cfg.DBMode {
	case DBModePostgres:
		gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
		if err != nil {
			log.Fatalf("Failed to initialize postgres: %v", err)
		}
		return pg.NewGORMGroupDBWrapper(gormDB)
	case DBModeMemory:
		return mem.NewInMemoryGroupDBWrapper()
	default:
		log.Fatalf("Unknown db mode: %s", cfg.DBMode)
		return nil
	}
}

func newMQWrapper(cfg ServiceConfig) mq.GroupMessageQueueWrapper {
	switch cfg.MqMode {
	case MqModeRabbit:
		conn := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL())
		wrapper, err := rabbit.NewRabbitGroupMessageQueueWrapper(conn)
		if err != nil {
			log.Fatalf("Failed to initialize rabbitmq: %v", err)
		}
		return wrapper
	case MqModeGCPPubSub:
		wrapper, err := gcppubsub.NewGCPGroupMessageQueueWrapper(context.Background(), gcppubsub.GetGCPProjectID())
		if err != nil {
			log.Fatalf("Failed to initialize gcp pubsub: %v", err)
		}
		return wrapper
	case MqModeGoChan:
		return goch.NewGoChanGroupMessageQueueWrapper()
	default:
		log.Fatalf("Unknown mq mode: %s", cfg.MqMode)
		return nil
	}
}

func setupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	groups := r.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("/:id", h.GetGroup)
		groups.PUT("/:id", h.UpdateGroup)
		groups.DELETE("/:id", h.DeleteGroup)

		groups.POST("/:id/members", h.AddMember)
		groups.DELETE("/:id/members/:memberId", h.RemoveMember)

		groups.GET("/:id/expenses", h.ListExpenses)
		groups.POST("/:id/expenses", h.CreateExpense)

		groups.GET("/:id/settlements", h.ListSettlements)
		groups.POST("/:id/settlements", h.CreateSettlement)

		groups.GET("/:id/balances", h.GetBalances)
		groups.GET("/:id/debts", h.GetDebts)
		groups.GET("/:id/suggestions", h.GetSuggestions)
		groups.GET("/:id/summary", h.GetSummary)
		groups.GET("/:id/live", h.LiveBalances)
	}

	r.PUT("/expenses/:id", h.UpdateExpense)
	r.DELETE("/expenses/:id", h.DeleteExpense)
	r.DELETE("/settlements/:id", h.DeleteSettlement)
}

func Serve(cfg ServiceConfig) {
	if !cfg.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}

	dbWrapper := newDBWrapper(cfg)
	mqWrapper := newMQWrapper(cfg)
	h := NewHandler(dbWrapper, mqWrapper)

	r := gin.New()
	setupMiddlewares(r, dbWrapper)
	setupRoutes(r, h)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
