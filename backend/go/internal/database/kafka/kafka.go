package kafka

import (
	"Saber/backend/go/internal/config"
	"Saber/backend/go/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaClient 持有 Kafka 的管理连接和配置，用于创建 reader 与 writer。
type KafkaClient struct {
	Conn   *kafka.Conn // 用于管理的连接
	Config *config.KafkaConfig
	log    *logger.Logger
}

// NewClient 连接到 Kafka 并根据配置自动创建所有必需的主题。
func NewClient(cfg *config.KafkaConfig, log *logger.Logger) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("未配置 Kafka brokers")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return nil, fmt.Errorf("kafka 初始化连接失败: %w", err)
	}

	c := &KafkaClient{Conn: conn, Config: cfg, log: log}
	if err := c.ensureTopics(cfg.Topics); err != nil {
		conn.Close()
		return nil, err
	}
	log.WithField("brokers", cfg.Brokers).Info("成功初始化 Kafka 客户端")
	return c, nil
}

// ensureTopics 创建尚不存在的主题。
func (c *KafkaClient) ensureTopics(topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	partitions, err := c.Conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("无法读取 Kafka 分区信息: %w", err)
	}
	existing := make(map[string]struct{})
	for _, p := range partitions {
		existing[p.Topic] = struct{}{}
	}

	var toCreate []kafka.TopicConfig
	for _, name := range topics {
		if _, ok := existing[name]; !ok {
			toCreate = append(toCreate, kafka.TopicConfig{
				Topic:             name,
				NumPartitions:     1,
				ReplicationFactor: 1,
			})
		}
	}
	if len(toCreate) == 0 {
		return nil
	}
	if err := c.Conn.CreateTopics(toCreate...); err != nil {
		return fmt.Errorf("自动创建 Kafka 主题失败: %w", err)
	}
	c.log.WithField("count", len(toCreate)).Info("成功创建 Kafka 主题")
	return nil
}

// ReaderConfig 按重连策略构建消费者配置。
func ReaderConfig(brokers []string, topic, groupID string, policy config.ReconnectConfig) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxAttempts:    policy.MaxAttempts,
		ReadBackoffMin: config.Duration(policy.BackoffMin),
		ReadBackoffMax: config.Duration(policy.BackoffMax),
		Dialer: &kafka.Dialer{
			Timeout: 10 * time.Second,
		},
	}
}

// NewReader 创建一个按重连策略读取 topic 的消费者。
func (c *KafkaClient) NewReader(topic, groupID string, policy config.ReconnectConfig) *kafka.Reader {
	return kafka.NewReader(ReaderConfig(c.Config.Brokers, topic, groupID, policy))
}

// NewWriter 创建一个写入 topic 的生产者。
func (c *KafkaClient) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.Config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// Close 安全地关闭 Kafka 管理连接。
func (c *KafkaClient) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// HealthCheck 检查 Kafka 连接的健康状况。
func (c *KafkaClient) HealthCheck(_ context.Context) error {
	if c == nil || c.Conn == nil {
		return fmt.Errorf("kafka 客户端未初始化，无法进行健康检查")
	}
	_, err := c.Conn.Controller()
	return err
}
