package llm

import (
	"Saber/backend/go/internal/config"
	"Saber/backend/go/internal/models"
	"context"
	"fmt"
)

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (*models.GenerateContentResponse, error)
}

// NewLLM 是一个工厂函数，根据提供的配置创建并返回一个实现了 LLM 接口的客户端。
func NewLLM(ctx context.Context, cfg config.LLMConfig) (LLM, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.Model, cfg.APIKey)
	case "openai":
		return NewOpenAI(cfg.Model, cfg.APIKey, cfg.BaseURL)
	case "ollama":
		return NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// splitSystem separates system-role text from the conversational content.
func splitSystem(req *models.GenerateContentRequest) (system string, rest []models.Content) {
	for _, c := range req.Content {
		if c.Role == models.SpeakerSystem {
			for _, p := range c.Parts {
				system += p.Text
			}
			continue
		}
		rest = append(rest, c)
	}
	return system, rest
}
