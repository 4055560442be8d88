package models

// SpeakerRole 定义了消息发送者的角色。
type SpeakerRole string

const (
	SpeakerUser   SpeakerRole = "user"   // 用户角色。
	SpeakerSystem SpeakerRole = "system" // 系统提示。
	SpeakerModel  SpeakerRole = "model"  // 模型角色。
)

// Content 包含了构成单个消息的多个部分。
type Content struct {
	Parts []*Part     `json:"parts,omitempty"`
	Role  SpeakerRole `json:"role,omitempty"`
}

// Part 定义了消息的单个部分。
type Part struct {
	Text string `json:"text,omitempty"`
}

// GenerateContentRequest 定义了生成内容的请求结构。
type GenerateContentRequest struct {
	Content []Content `json:"content,omitempty"`
	// JSONOutput asks the provider for a JSON-only response when it supports it.
	JSONOutput bool `json:"jsonOutput,omitempty"`
}

// GenerateContentResponse 定义了生成内容的响应结构。
type GenerateContentResponse struct {
	Content      []Content `json:"content,omitempty"`
	ModelVersion string    `json:"modelVersion,omitempty"`
}

// Text concatenates every text part of the response.
func (r *GenerateContentResponse) Text() string {
	if r == nil {
		return ""
	}
	var out string
	for _, c := range r.Content {
		for _, p := range c.Parts {
			if p != nil {
				out += p.Text
			}
		}
	}
	return out
}
