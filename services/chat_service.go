package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"teamup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService is plain store-and-forward for match conversations. Delivery
// fan-out happens over the socket server; this only persists history.
type ChatService struct {
	Dynamo *DynamoService
}

// SendMessage stores a new message in the conversation
func (cs *ChatService) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	message := models.Message{
		ConversationID: conversationID,
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		IsUnread:       true,
	}
	if err := cs.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return &message, nil
}

// GetMessages fetches messages for a conversation, newest first
func (cs *ChatService) GetMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	items, err := cs.Dynamo.QueryItems(ctx, models.MessagesTable,
		"conversationId = :conversationId",
		map[string]types.AttributeValue{":conversationId": StringAttr(conversationID)},
		nil,
		int32(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	return messages, nil
}

// MarkMessagesAsRead flags every message the reader received as read
func (cs *ChatService) MarkMessagesAsRead(ctx context.Context, conversationID, readerID string) error {
	messages, err := cs.GetMessages(ctx, conversationID, 100)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if message.SenderID == readerID || !message.IsUnread {
			continue
		}
		key := map[string]types.AttributeValue{
			"conversationId": StringAttr(conversationID),
			"messageId":      StringAttr(message.MessageID),
		}
		_, err := cs.Dynamo.UpdateItem(ctx, models.MessagesTable,
			"SET isUnread = :false",
			key,
			map[string]types.AttributeValue{":false": &types.AttributeValueMemberBOOL{Value: false}},
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to mark message %s as read: %w", message.MessageID, err)
		}
	}
	return nil
}
