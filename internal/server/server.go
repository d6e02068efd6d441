package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/transition"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

type Server struct {
	Engine *gin.Engine
	Store  repository.TaskStore
	Emails *notify.Log
	Config *config.Config
	Logger *log.Logger

	closers []func(context.Context) error
}

// Deps are the collaborators the HTTP engine is built from.
type Deps struct {
	Store       repository.TaskStore
	Notifier    handler.Notifier
	Emails      *notify.Log
	Logger      *log.Logger
	APIPrefix   string
	CORSOrigins []string
}

// NewEngine builds the gin engine with every route mounted under APIPrefix.
func NewEngine(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.CORS(deps.CORSOrigins),
		transition.Middleware(deps.Logger),
	)

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(deps.Store, deps.Notifier, deps.Logger)
	emailHandler := handler.NewEmailHandler(deps.Emails)
	healthHandler := handler.NewHealthHandler(deps.Store, deps.Emails, deps.Logger)

	api := r.Group(deps.APIPrefix)
	{
		// Task routes
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/counts", taskHandler.Counts)
		api.GET("/tasks/status/:status", taskHandler.ListByStatus)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.PUT("/tasks/:id/status", taskHandler.UpdateStatus)
		api.POST("/sample-data", taskHandler.SampleData)

		// Email log routes
		api.GET("/emails", emailHandler.List)
		api.DELETE("/emails", emailHandler.Clear)

		api.GET("/health", healthHandler.Health)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func Init(cfg *config.Config, logger *log.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	s := &Server{Config: cfg, Logger: logger}

	store, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL != "" {
		store, err = s.withCountsCache(ctx, store)
		if err != nil {
			_ = s.close(context.Background())
			return nil, err
		}
	}

	s.Store = store
	s.Emails = notify.NewLog()
	dispatcher := notify.NewDispatcher(notify.NewSender(cfg.EmailDelay), s.Emails, logger)

	s.Engine = NewEngine(Deps{
		Store:       store,
		Notifier:    dispatcher,
		Emails:      s.Emails,
		Logger:      logger,
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
	})
	return s, nil
}

func (s *Server) openStore(ctx context.Context) (repository.TaskStore, error) {
	switch s.Config.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := gorm.Open(postgres.Open(s.Config.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, errors.Wrap(err, "❌ failed to connect to DB")
		}
		s.closers = append(s.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		if err := repository.Migrate(db); err != nil {
			_ = s.close(context.Background())
			return nil, err
		}
		s.Logger.Println("✅ Connected to database")
		return repository.NewTaskRepository(db), nil

	case config.StoreDriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.Config.MongoURI))
		if err != nil {
			return nil, errors.Wrap(err, "❌ failed to connect to MongoDB")
		}
		s.closers = append(s.closers, client.Disconnect)
		if err := client.Ping(ctx, nil); err != nil {
			_ = s.close(context.Background())
			return nil, errors.Wrap(err, "❌ MongoDB is not reachable")
		}
		store, err := repository.NewMongoStore(ctx, client.Database(s.Config.MongoDatabase))
		if err != nil {
			_ = s.close(context.Background())
			return nil, err
		}
		s.Logger.Println("✅ Connected to MongoDB")
		return store, nil

	case config.StoreDriverMemory:
		store, err := repository.NewMemoryStore()
		if err != nil {
			return nil, err
		}
		s.Logger.Println("✅ Using in-memory task store")
		return store, nil
	}
	return nil, errors.Wrapf(repository.ErrUnknownDriver, "%q", s.Config.StoreDriver)
}

func (s *Server) withCountsCache(ctx context.Context, store repository.TaskStore) (repository.TaskStore, error) {
	opts, err := redis.ParseURL(s.Config.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "❌ invalid REDIS_URL")
	}
	client := redis.NewClient(opts)
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		// The cache falls back to the store on every redis error.
		s.Logger.WithError(err).Warn("⚠️  Redis is not reachable, counts will not be cached until it is")
	} else {
		s.Logger.Println("✅ Connected to Redis")
	}
	return repository.NewCountsCache(store, client, s.Config.CountsCacheTTL), nil
}

func (s *Server) close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Printf("🚀 Server running on port %s", s.Config.ServerPort)
		s.Logger.Printf("📨 Email log available at: http://localhost:%s%s/emails", s.Config.ServerPort, s.Config.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	if err := s.close(ctx); err != nil {
		s.Logger.WithError(err).Warn("⚠️  Failed to close store connections")
	}

	s.Logger.Println("✅ Server exited properly")
}
