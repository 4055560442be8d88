package neo4j

import (
	"Saber/backend/go/internal/config"
	"Saber/backend/go/pkg/logger"
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var (
	instance *Neo4jClient
	once     sync.Once
	initErr  error
)

// Neo4jClient 包含了 Neo4j 驱动实例和从 YAML 加载的相关配置。
type Neo4jClient struct {
	Driver neo4j.DriverWithContext // Neo4j 驱动实例。
	Config *config.Neo4jConfig     // Neo4j 配置。
}

// Enabled 判断是否配置了 Neo4j。未配置时不启用关系镜像。
func Enabled(cfg *config.Neo4jConfig) bool {
	return cfg != nil && cfg.Uri != ""
}

// GetClient 使用单例模式创建并返回一个新的 Neo4j 驱动实例。
func GetClient(ctx context.Context, cfg *config.Neo4jConfig, log *logger.Logger) (*Neo4jClient, error) {
	once.Do(func() {
		// 使用用户名和密码创建认证 token。
		auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")

		driver, err := neo4j.NewDriverWithContext(cfg.Uri, auth)
		if err != nil {
			initErr = fmt.Errorf("无法创建 Neo4j 驱动: %w", err)
			return
		}

		// 验证失败时需要关闭已创建的驱动以释放资源。
		if err := driver.VerifyConnectivity(ctx); err != nil {
			driver.Close(ctx)
			initErr = fmt.Errorf("无法连接到 Neo4j 数据库: %w", err)
			return
		}

		log.WithField("uri", cfg.Uri).Info("成功连接到 Neo4j")
		instance = &Neo4jClient{Driver: driver, Config: cfg}
	})
	return instance, initErr
}

// Close 安全地关闭与 Neo4j 的连接。
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	return c.Driver.Close(ctx)
}

// HealthCheck 检查 Neo4j 连接的健康状况。
func (c *Neo4jClient) HealthCheck(ctx context.Context) error {
	return c.Driver.VerifyConnectivity(ctx)
}

// ExecuteWrite 在一个自动管理的写事务中执行 Cypher 查询。
func (c *Neo4jClient) ExecuteWrite(ctx context.Context, work func(tx neo4j.ManagedTransaction) (interface{}, error)) (interface{}, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.Config.Database})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	if err != nil {
		return nil, fmt.Errorf("执行 Neo4j 写事务失败: %w", err)
	}
	return result, nil
}
