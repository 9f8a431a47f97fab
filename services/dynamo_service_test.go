package services

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// pagingScanClient serves scripted scan pages and records the start key of
// each call
type pagingScanClient struct {
	DynamoAPI
	pages     []*dynamodb.ScanOutput
	startKeys []map[string]types.AttributeValue
}

func (c *pagingScanClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.startKeys = append(c.startKeys, params.ExclusiveStartKey)
	return c.pages[len(c.startKeys)-1], nil
}

func scanItem(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"participantId": StringAttr(id)}
}

func TestScanWithFilterFollowsPages(t *testing.T) {
	pageKey := map[string]types.AttributeValue{"participantId": StringAttr("b")}
	client := &pagingScanClient{
		pages: []*dynamodb.ScanOutput{
			{Items: []map[string]types.AttributeValue{scanItem("a"), scanItem("b")}, LastEvaluatedKey: pageKey},
			{Items: []map[string]types.AttributeValue{scanItem("c")}},
		},
	}
	ds := &DynamoService{Client: client}

	var rows []struct {
		ParticipantID string `dynamodbav:"participantId"`
	}
	if err := ds.ScanWithFilter(context.Background(), "Participants", "", nil, nil, nil, &rows); err != nil {
		t.Fatalf("ScanWithFilter: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected items from every page, got %d", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].ParticipantID != want {
			t.Errorf("row %d = %q, want %q", i, rows[i].ParticipantID, want)
		}
	}

	if len(client.startKeys) != 2 {
		t.Fatalf("expected two scan calls, got %d", len(client.startKeys))
	}
	if client.startKeys[0] != nil {
		t.Error("expected first scan without a start key")
	}
	if client.startKeys[1] == nil {
		t.Error("expected second scan to resume from LastEvaluatedKey")
	}
}
