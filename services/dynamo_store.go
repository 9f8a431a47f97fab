package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"teamup_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements ParticipantStore, MatchStore and ReviewStore on the
// four DynamoDB tables (Participants, Matches, Participations, Reviews).
type DynamoStore struct {
	Dynamo *DynamoService
}

func participantKey(participantID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"participantId": StringAttr(participantID),
	}
}

// GetParticipant retrieves a participant row, nil when absent
func (s *DynamoStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ParticipantsTable, participantKey(participantID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var participant models.Participant
	if err := attributevalue.UnmarshalMap(item, &participant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participant: %w", err)
	}
	return &participant, nil
}

// PutParticipant inserts or replaces a participant row
func (s *DynamoStore) PutParticipant(ctx context.Context, participant models.Participant) error {
	return s.Dynamo.PutItem(ctx, models.ParticipantsTable, participant)
}

// UpdateRole sets the participant's role
func (s *DynamoStore) UpdateRole(ctx context.Context, participantID, role string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
		"SET #role = :role",
		"attribute_exists(participantId)",
		participantKey(participantID),
		map[string]types.AttributeValue{":role": StringAttr(role)},
		map[string]string{"#role": "role"},
	)
	if errors.Is(err, ErrConditionFailed) {
		return ErrParticipantNotFound
	}
	return err
}

// MarkWaiting stamps waitingSince on the participant row. The condition keeps
// a participant who was matched by another process out of the queue: a row
// carrying activeMatchId must never gain waitingSince.
func (s *DynamoStore) MarkWaiting(ctx context.Context, participantID, since string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.ParticipantsTable,
		"SET waitingSince = :since",
		"attribute_exists(participantId) AND attribute_not_exists(activeMatchId)",
		participantKey(participantID),
		map[string]types.AttributeValue{":since": StringAttr(since)},
		nil,
	)
	if errors.Is(err, ErrConditionFailed) {
		current, getErr := s.GetParticipant(ctx, participantID)
		if getErr == nil && current == nil {
			return ErrParticipantNotFound
		}
		return ErrActiveMatchConflict
	}
	return err
}

// ClearWaiting removes waitingSince; a participant who was never waiting is a no-op
func (s *DynamoStore) ClearWaiting(ctx context.Context, participantID string) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.ParticipantsTable,
		"REMOVE waitingSince",
		participantKey(participantID),
		nil, nil,
	)
	return err
}

// ListWaiting scans for queued participants of one role with no active match,
// oldest wait first. Table sizes here are queue-sized, so a filtered scan is
// the same approach the profile browsing takes.
func (s *DynamoStore) ListWaiting(ctx context.Context, role string) ([]models.Participant, error) {
	var waiting []models.Participant
	err := s.Dynamo.ScanWithFilter(ctx, models.ParticipantsTable,
		"#role = :role AND attribute_exists(waitingSince) AND attribute_not_exists(activeMatchId)",
		map[string]types.AttributeValue{":role": StringAttr(role)},
		map[string]string{"#role": "role"},
		nil,
		&waiting,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting participants: %w", err)
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].WaitingSince != waiting[j].WaitingSince {
			return waiting[i].WaitingSince < waiting[j].WaitingSince
		}
		return waiting[i].ParticipantID < waiting[j].ParticipantID
	})
	return waiting, nil
}

// CreateMatch writes match + participations and claims both participants in
// one transaction. The candidate row must still carry waitingSince and no
// activeMatchId, otherwise the whole transaction cancels and the caller gets
// ErrCandidateClaimed.
func (s *DynamoStore) CreateMatch(ctx context.Context, match models.Match, requester, candidate models.Participation) error {
	matchItem, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}
	requesterItem, err := attributevalue.MarshalMap(requester)
	if err != nil {
		return fmt.Errorf("failed to marshal participation: %w", err)
	}
	candidateItem, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		return fmt.Errorf("failed to marshal participation: %w", err)
	}

	claimValues := map[string]types.AttributeValue{
		":matchId": StringAttr(match.MatchID),
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(models.MatchesTable),
			Item:                matchItem,
			ConditionExpression: aws.String("attribute_not_exists(matchId)"),
		}},
		{Put: &types.Put{
			TableName: aws.String(models.ParticipationsTable),
			Item:      requesterItem,
		}},
		{Put: &types.Put{
			TableName: aws.String(models.ParticipationsTable),
			Item:      candidateItem,
		}},
		{Update: &types.Update{
			TableName:                 aws.String(models.ParticipantsTable),
			Key:                       participantKey(requester.ParticipantID),
			UpdateExpression:          aws.String("SET activeMatchId = :matchId REMOVE waitingSince"),
			ConditionExpression:       aws.String("attribute_exists(participantId) AND attribute_not_exists(activeMatchId)"),
			ExpressionAttributeValues: claimValues,
		}},
		{Update: &types.Update{
			TableName:                 aws.String(models.ParticipantsTable),
			Key:                       participantKey(candidate.ParticipantID),
			UpdateExpression:          aws.String("SET activeMatchId = :matchId REMOVE waitingSince"),
			ConditionExpression:       aws.String("attribute_exists(waitingSince) AND attribute_not_exists(activeMatchId)"),
			ExpressionAttributeValues: claimValues,
		}},
	}

	err = s.Dynamo.TransactWriteItems(ctx, items)
	if errors.Is(err, ErrConditionFailed) {
		return ErrCandidateClaimed
	}
	return err
}

// GetMatch retrieves a match row, nil when absent
func (s *DynamoStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, map[string]types.AttributeValue{
		"matchId": StringAttr(matchID),
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// GetParticipations returns the two participation rows of a match
func (s *DynamoStore) GetParticipations(ctx context.Context, matchID string) ([]models.Participation, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.ParticipationsTable,
		"matchId = :matchId",
		map[string]types.AttributeValue{":matchId": StringAttr(matchID)},
		nil,
		10,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query participations: %w", err)
	}

	var participations []models.Participation
	if err := attributevalue.UnmarshalListOfMaps(items, &participations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participations: %w", err)
	}
	return participations, nil
}

// CompleteMatch transitions the match and releases both participants in one
// transaction. The status condition makes the transition single-shot: a
// concurrent second completion cancels here.
func (s *DynamoStore) CompleteMatch(ctx context.Context, matchID, completedAt, artifactRef string, participantIDs []string) error {
	updateExpression := "SET #status = :completed, completedAt = :completedAt"
	values := map[string]types.AttributeValue{
		":completed":   StringAttr(models.MatchStatusCompleted),
		":active":      StringAttr(models.MatchStatusActive),
		":completedAt": StringAttr(completedAt),
	}
	if artifactRef != "" {
		updateExpression += ", artifactRef = :artifactRef"
		values[":artifactRef"] = StringAttr(artifactRef)
	}

	items := []types.TransactWriteItem{
		{Update: &types.Update{
			TableName:                 aws.String(models.MatchesTable),
			Key:                       map[string]types.AttributeValue{"matchId": StringAttr(matchID)},
			UpdateExpression:          aws.String(updateExpression),
			ConditionExpression:       aws.String("#status = :active"),
			ExpressionAttributeNames:  map[string]string{"#status": "status"},
			ExpressionAttributeValues: values,
		}},
	}
	for _, participantID := range participantIDs {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:        aws.String(models.ParticipantsTable),
			Key:              participantKey(participantID),
			UpdateExpression: aws.String("REMOVE activeMatchId"),
		}})
	}

	err := s.Dynamo.TransactWriteItems(ctx, items)
	if errors.Is(err, ErrConditionFailed) {
		return ErrMatchNotActive
	}
	return err
}

// PutReview persists the review row for a match
func (s *DynamoStore) PutReview(ctx context.Context, review models.Review) error {
	return s.Dynamo.PutItem(ctx, models.ReviewsTable, review)
}

// GetReview retrieves a match's review, nil when absent
func (s *DynamoStore) GetReview(ctx context.Context, matchID string) (*models.Review, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ReviewsTable, map[string]types.AttributeValue{
		"matchId": StringAttr(matchID),
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var review models.Review
	if err := attributevalue.UnmarshalMap(item, &review); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review: %w", err)
	}
	return &review, nil
}
