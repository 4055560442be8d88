package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// BotConfig holds the user-facing texts of the assistant.
type BotConfig struct {
	DisplayName string `yaml:"displayName"` // prefixed to every reply
	LearnPrefix string `yaml:"learnPrefix"` // messages starting with it are learning commands
	ApologyText string `yaml:"apologyText"` // reply when the classifier fails
	FailureText string `yaml:"failureText"` // reply when anything else fails
}

// KnowledgeConfig tunes extraction and caching.
type KnowledgeConfig struct {
	MaxKeywords     int     `yaml:"maxKeywords"`
	MaxValueLength  int     `yaml:"maxValueLength"`
	CacheMinOverlap float64 `yaml:"cacheMinOverlap"`
	// TrustLearningCommands forces certainty ALTA on every entry of a learning command.
	// nil means true. Whether learning commands should be trusted unconditionally is still open.
	TrustLearningCommands *bool `yaml:"trustLearningCommands"`
}

// Trusted reports whether learning commands override the classifier's certainty.
func (k KnowledgeConfig) Trusted() bool {
	return k.TrustLearningCommands == nil || *k.TrustLearningCommands
}

// LLMConfig 包含了 LLM 提供商的配置。
type LLMConfig struct {
	Provider string `yaml:"provider"` // LLM提供商 ("gemini", "openai", "ollama")
	Model    string `yaml:"model"`    // 模型名称
	APIKey   string `yaml:"apiKey"`   // API 密钥
	BaseURL  string `yaml:"baseURL"`  // 自定义服务地址 (openai 兼容 / ollama)
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "mongo" or "memory"
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 服务器地址
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// Neo4jConfig 定义了 Neo4j 图数据库的连接配置。为空时不启用关系镜像。
type Neo4jConfig struct {
	Uri      string `yaml:"uri"`      // Neo4j 数据库URI (例如: "bolt://localhost:7687")
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topics  []string `yaml:"topics"`  // 启动时确保存在的主题
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 数据库配置
	Redis   RedisConfig `yaml:"redis"`   // Redis 数据库配置
	Neo4j   Neo4jConfig `yaml:"neo4j"`   // Neo4j 数据库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// ReconnectConfig is the reconnection policy of the transport reader.
type ReconnectConfig struct {
	MaxAttempts int    `yaml:"maxAttempts"`
	BackoffMin  string `yaml:"backoffMin"` // e.g. "100ms"
	BackoffMax  string `yaml:"backoffMax"` // e.g. "5s"
}

// TransportConfig describes the message topics.
type TransportConfig struct {
	InboundTopic  string          `yaml:"inboundTopic"`
	OutboundTopic string          `yaml:"outboundTopic"`
	GroupID       string          `yaml:"groupID"`
	DedupeTTL     string          `yaml:"dedupeTTL"` // how long a delivered message id is remembered
	Reconnect     ReconnectConfig `yaml:"reconnect"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// AuthConfig 用于配置认证。JwtSecret 为空时不启用认证。
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"`
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter    RateLimiterConfig    `yaml:"rateLimiter"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
}

// RateLimiterConfig 定义了令牌桶限流器的配置。
type RateLimiterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Rate     float64 `yaml:"rate"` // 每秒速率
	Capacity int     `yaml:"capacity"`
}

// CircuitBreakerConfig 定义了熔断器的配置。
type CircuitBreakerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	FailureThreshold uint32 `yaml:"failureThreshold"`
	SuccessThreshold uint32 `yaml:"successThreshold"`
	Timeout          string `yaml:"timeout"` // 例如: "30s"
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`
	Logger     LoggerConfig     `yaml:"logger"`
	Bot        BotConfig        `yaml:"bot"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	LLM        LLMConfig        `yaml:"llm"`
	Storage    StorageConfig    `yaml:"storage"`
	Databases  DatabaseConfigs  `yaml:"databases"`
	Transport  TransportConfig  `yaml:"transport"`
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Middleware MiddlewareConfig `yaml:"middleware"`
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
// 文件中的 ${VAR} 会先按环境变量展开，未设置的字段使用默认值。
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	return Parse(yamlFile)
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Bot.DisplayName == "" {
		c.Bot.DisplayName = "Saber"
	}
	if c.Bot.LearnPrefix == "" {
		c.Bot.LearnPrefix = "/aprender "
	}
	if c.Bot.ApologyText == "" {
		c.Bot.ApologyText = "Desculpe, não consegui entender sua mensagem agora. Tente novamente em instantes."
	}
	if c.Bot.FailureText == "" {
		c.Bot.FailureText = "Ops, algo deu errado ao processar sua mensagem."
	}
	if c.Knowledge.MaxKeywords <= 0 {
		c.Knowledge.MaxKeywords = 10
	}
	if c.Knowledge.MaxValueLength <= 0 {
		c.Knowledge.MaxValueLength = 500
	}
	if c.Knowledge.CacheMinOverlap <= 0 {
		c.Knowledge.CacheMinOverlap = 0.6
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "mongo"
	}
	if c.Databases.MongoDB.Database == "" {
		c.Databases.MongoDB.Database = "saber"
	}
	if c.Transport.InboundTopic == "" {
		c.Transport.InboundTopic = "messages.inbound"
	}
	if c.Transport.OutboundTopic == "" {
		c.Transport.OutboundTopic = "messages.outbound"
	}
	if c.Transport.GroupID == "" {
		c.Transport.GroupID = "knowledge-service"
	}
	if c.Transport.DedupeTTL == "" {
		c.Transport.DedupeTTL = "24h"
	}
	if c.Transport.Reconnect.MaxAttempts <= 0 {
		c.Transport.Reconnect.MaxAttempts = 10
	}
	if c.Transport.Reconnect.BackoffMin == "" {
		c.Transport.Reconnect.BackoffMin = "100ms"
	}
	if c.Transport.Reconnect.BackoffMax == "" {
		c.Transport.Reconnect.BackoffMax = "5s"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Middleware.CircuitBreaker.FailureThreshold == 0 {
		c.Middleware.CircuitBreaker.FailureThreshold = 5
	}
	if c.Middleware.CircuitBreaker.SuccessThreshold == 0 {
		c.Middleware.CircuitBreaker.SuccessThreshold = 1
	}
	if c.Middleware.CircuitBreaker.Timeout == "" {
		c.Middleware.CircuitBreaker.Timeout = "30s"
	}
}

func (c *AppConfig) validate() error {
	switch c.Storage.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	if c.Knowledge.CacheMinOverlap > 1 {
		return fmt.Errorf("knowledge.cacheMinOverlap must be in (0, 1], got %v", c.Knowledge.CacheMinOverlap)
	}
	for name, d := range map[string]string{
		"transport.dedupeTTL":               c.Transport.DedupeTTL,
		"transport.reconnect.backoffMin":    c.Transport.Reconnect.BackoffMin,
		"transport.reconnect.backoffMax":    c.Transport.Reconnect.BackoffMax,
		"middleware.circuitBreaker.timeout": c.Middleware.CircuitBreaker.Timeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	return nil
}

// Duration parses a duration field that validate already checked.
func Duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
