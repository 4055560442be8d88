package models

import "time"

// InboundMessage is what the transport hands to the orchestrator.
type InboundMessage struct {
	ID                string    `json:"id"`
	Text              string    `json:"text"`
	SenderID          string    `json:"senderId"`
	SenderDisplayName string    `json:"senderDisplayName,omitempty"`
	IsGroup           bool      `json:"isGroup"`
	ReceivedAt        time.Time `json:"receivedAt"`
}

// Route records which path produced a reply.
type Route string

const (
	RouteCache    Route = "cache"
	RouteQuery    Route = "query"
	RouteLearning Route = "learning"
	RouteFallback Route = "fallback"
	RouteError    Route = "error"
)

// Reply is the orchestrator's answer to one message.
type Reply struct {
	Text        string `json:"reply"`
	Route       Route  `json:"route"`
	FactsStored int    `json:"factsStored"`
}

// OutboundMessage is what the transport sends back to the conversation.
type OutboundMessage struct {
	ID              string    `json:"id"`
	ConversationID  string    `json:"conversationId"`
	Text            string    `json:"text"`
	QuotedMessageID string    `json:"quotedMessageId,omitempty"`
	SentAt          time.Time `json:"sentAt"`
}
