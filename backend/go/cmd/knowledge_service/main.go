package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Saber/backend/go/internal/config"
	kafkadb "Saber/backend/go/internal/database/kafka"
	"Saber/backend/go/internal/database/mongo"
	neo4jdb "Saber/backend/go/internal/database/neo4j"
	redisdb "Saber/backend/go/internal/database/redis"
	"Saber/backend/go/internal/knowledge/api"
	"Saber/backend/go/internal/knowledge/cache"
	"Saber/backend/go/internal/knowledge/classifier"
	"Saber/backend/go/internal/knowledge/consumer"
	"Saber/backend/go/internal/knowledge/dedupe"
	"Saber/backend/go/internal/knowledge/publisher"
	"Saber/backend/go/internal/knowledge/service"
	"Saber/backend/go/internal/knowledge/store"
	"Saber/backend/go/internal/knowledge/translator"
	"Saber/backend/go/internal/llm"
	"Saber/backend/go/internal/models"
	"Saber/backend/go/pkg/http"
	"Saber/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultConfigPath = "backend/go/configs/config.yaml"

func main() {
	path := os.Getenv("SABER_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.New("KnowledgeService", "", "").WithError(models.ErrorInfo{Message: err.Error()}).Fatal("加载配置失败")
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	serviceLogger := logger.New("KnowledgeService", "", "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	facts, responses := openStorage(ctx, cfg, serviceLogger)

	// Classifier
	model, err := llm.NewLLM(ctx, cfg.LLM)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("初始化 LLM 失败")
	}
	breaker, err := http.NewCircuitBreaker(cfg.Middleware.CircuitBreaker, serviceLogger)
	if err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("初始化熔断器失败")
	}
	clf := classifier.New(model, classifier.Config{
		LearnPrefix:           cfg.Bot.LearnPrefix,
		TrustLearningCommands: cfg.Knowledge.Trusted(),
		Breaker:               breaker,
	}, serviceLogger.WithField("component", "classifier"))

	// Orchestrator
	var (
		opts  []service.Option
		graph *neo4jdb.Neo4jClient
	)
	if neo4jdb.Enabled(&cfg.Databases.Neo4j) {
		graph, err = neo4jdb.GetClient(ctx, &cfg.Databases.Neo4j, serviceLogger)
		if err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("连接 Neo4j 失败")
		}
		defer graph.Close(context.Background())
		opts = append(opts, service.WithGraphMirror(store.NewNeo4jGraphStore(graph)))
	}
	svc := service.New(clf,
		translator.New(cfg.Knowledge.MaxValueLength, serviceLogger.WithField("component", "translator")),
		facts, responses,
		service.Config{
			DisplayName: cfg.Bot.DisplayName,
			LearnPrefix: cfg.Bot.LearnPrefix,
			ApologyText: cfg.Bot.ApologyText,
			FailureText: cfg.Bot.FailureText,
			MaxKeywords: cfg.Knowledge.MaxKeywords,
		},
		serviceLogger.WithField("component", "orchestrator"),
		opts...)

	apiHandler := api.NewAPI(svc, facts, responses, serviceLogger.WithField("component", "api"))
	if graph != nil {
		apiHandler.AddHealthCheck("neo4j", graph.HealthCheck)
	}

	// Transport
	var wg sync.WaitGroup
	if len(cfg.Databases.Kafka.Brokers) > 0 {
		closeTransport := startTransport(ctx, &wg, cfg, svc, apiHandler, serviceLogger)
		defer closeTransport()
	} else {
		serviceLogger.Warn("未配置 Kafka brokers，仅启用 HTTP 接口")
	}

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(apiHandler, api.RouterConfig{
		JwtSecret: cfg.Auth.JwtSecret,
		Limiter:   http.NewRateLimiter(cfg.Middleware.RateLimiter),
	})
	srv := http.NewServer(router, serviceLogger, http.WithAddress(cfg.Server.Address))
	if err := srv.Run(ctx); err != nil {
		serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("HTTP 服务异常退出")
		stop()
	}

	wg.Wait()
	if closer, ok := model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("关闭 LLM 客户端失败")
		}
	}
	if cfg.Storage.Driver == "mongo" {
		if err := mongo.Close(context.Background()); err != nil {
			serviceLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("断开 MongoDB 失败")
		}
	}
	serviceLogger.Info("服务已停止")
}

// openStorage returns the fact store and response cache for the configured driver.
func openStorage(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (store.FactStore, cache.ResponseCache) {
	if cfg.Storage.Driver == "memory" {
		log.Warn("使用内存存储，重启后知识将丢失")
		return store.NewMemoryFactStore(), cache.NewMemoryResponseCache(cfg.Knowledge.CacheMinOverlap)
	}

	db, err := mongo.Database(&cfg.Databases.MongoDB, log)
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("连接 MongoDB 失败")
	}
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := store.EnsureIndexes(indexCtx, db); err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("创建索引失败")
	}
	return store.NewMongoFactStore(db), cache.NewMongoResponseCache(db, cfg.Knowledge.CacheMinOverlap)
}

// startTransport runs the inbound consumer in the background and returns the cleanup func.
func startTransport(ctx context.Context, wg *sync.WaitGroup, cfg *config.AppConfig, svc *service.Service, apiHandler *api.API, log *logger.Logger) func() {
	kafkaClient, err := kafkadb.NewClient(&cfg.Databases.Kafka, log)
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("连接 Kafka 失败")
	}
	apiHandler.AddHealthCheck("kafka", kafkaClient.HealthCheck)

	var guard dedupe.Guard
	ttl := config.Duration(cfg.Transport.DedupeTTL)
	if redisdb.Enabled(&cfg.Databases.Redis) {
		rdb, err := redisdb.GetClient(&cfg.Databases.Redis, log)
		if err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("连接 Redis 失败")
		}
		guard = dedupe.NewRedisGuard(rdb, ttl)
		apiHandler.AddHealthCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	} else {
		mg, err := dedupe.NewMemoryGuard(dedupe.DefaultMemoryCapacity, ttl)
		if err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Fatal("初始化去重器失败")
		}
		log.Warn("未配置 Redis，使用进程内消息去重")
		guard = mg
	}

	reader := kafkaClient.NewReader(cfg.Transport.InboundTopic, cfg.Transport.GroupID, cfg.Transport.Reconnect)
	writer := kafkaClient.NewWriter(cfg.Transport.OutboundTopic)
	c := consumer.NewKafkaConsumer(reader,
		svc,
		publisher.NewReplyPublisher(writer, log.WithField("component", "publisher")),
		guard,
		config.Duration(cfg.Transport.Reconnect.BackoffMax),
		log.WithField("component", "consumer"))

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("topic", cfg.Transport.InboundTopic).Info("Kafka 消费者已启动")
		if err := c.Run(ctx); err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Error("Kafka 消费者异常退出")
		}
	}()

	return func() {
		for name, cl := range map[string]io.Closer{"reader": reader, "writer": writer, "kafka": kafkaClient} {
			if err := cl.Close(); err != nil {
				log.WithError(models.ErrorInfo{Message: err.Error()}).WithField("closer", name).Error("关闭 Kafka 资源失败")
			}
		}
		if err := redisdb.Close(); err != nil {
			log.WithError(models.ErrorInfo{Message: err.Error()}).Error("关闭 Redis 失败")
		}
	}
}
