package models

// Message is one chat message inside a match conversation
type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	Content        string `dynamodbav:"content" json:"content"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	IsUnread       bool   `dynamodbav:"isUnread" json:"isUnread"`
}

// MessagesTable is the DynamoDB table name for conversation messages
const MessagesTable = "Messages"
