package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagingDynamoAPI serves a scripted sequence of Query pages, the way
// DynamoDB splits a result at the response-size boundary regardless of the
// requested Limit.
type pagingDynamoAPI struct {
	pages  []*dynamodb.QueryOutput
	inputs []dynamodb.QueryInput
}

func (p *pagingDynamoAPI) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	p.inputs = append(p.inputs, *params)
	if len(p.pages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	page := p.pages[0]
	p.pages = p.pages[1:]
	return page, nil
}

func (p *pagingDynamoAPI) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return nil, errors.New("unexpected GetItem")
}

func (p *pagingDynamoAPI) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return nil, errors.New("unexpected PutItem")
}

func (p *pagingDynamoAPI) UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return nil, errors.New("unexpected UpdateItem")
}

func (p *pagingDynamoAPI) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return nil, errors.New("unexpected DeleteItem")
}

func (p *pagingDynamoAPI) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return nil, errors.New("unexpected Scan")
}

func messageItem(createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: "conv-1"},
		"createdAt":      &types.AttributeValueMemberS{Value: createdAt},
	}
}

func TestQueryItemsPaginatedFollowsShortPages(t *testing.T) {
	// Three rows, served one per response with a continuation key on each
	// short response, as under the size boundary.
	api := &pagingDynamoAPI{pages: []*dynamodb.QueryOutput{
		{Items: []map[string]types.AttributeValue{messageItem("t3")}, LastEvaluatedKey: messageItem("t3")},
		{Items: []map[string]types.AttributeValue{messageItem("t2")}, LastEvaluatedKey: messageItem("t2")},
		{Items: []map[string]types.AttributeValue{messageItem("t1")}},
	}}
	svc := &DynamoService{Client: api}

	items, nextKey, err := svc.QueryItemsPaginated(context.Background(), "Messages",
		"#conversationId = :conversationId",
		map[string]types.AttributeValue{":conversationId": &types.AttributeValueMemberS{Value: "conv-1"}},
		map[string]string{"#conversationId": "conversationId"},
		5, false, nil, []string{"conversationId", "createdAt"})
	require.NoError(t, err)

	require.Len(t, items, 3, "a short response with a continuation key is not exhaustion")
	assert.Nil(t, nextKey)
	require.Len(t, api.inputs, 3)
	assert.Nil(t, api.inputs[0].ExclusiveStartKey)
	assert.Equal(t, "t3", stringAttr(api.inputs[1].ExclusiveStartKey, "createdAt"))
	assert.Equal(t, "t2", stringAttr(api.inputs[2].ExclusiveStartKey, "createdAt"))
}

func TestQueryItemsPaginatedShortPagesStillTruncateAtLimit(t *testing.T) {
	api := &pagingDynamoAPI{pages: []*dynamodb.QueryOutput{
		{Items: []map[string]types.AttributeValue{messageItem("t3")}, LastEvaluatedKey: messageItem("t3")},
		{Items: []map[string]types.AttributeValue{messageItem("t2"), messageItem("t1")}, LastEvaluatedKey: messageItem("t1")},
	}}
	svc := &DynamoService{Client: api}

	items, nextKey, err := svc.QueryItemsPaginated(context.Background(), "Messages",
		"#conversationId = :conversationId",
		map[string]types.AttributeValue{":conversationId": &types.AttributeValueMemberS{Value: "conv-1"}},
		map[string]string{"#conversationId": "conversationId"},
		2, false, nil, []string{"conversationId", "createdAt"})
	require.NoError(t, err)

	require.Len(t, items, 2)
	require.NotNil(t, nextKey, "a third row was seen, so the listing is not done")
	assert.Equal(t, "t2", stringAttr(nextKey, "createdAt"))

	// The follow-up request only asks for what the lookahead still needs.
	require.Len(t, api.inputs, 2)
	require.NotNil(t, api.inputs[1].Limit)
	assert.Equal(t, int32(2), *api.inputs[1].Limit)
}

func TestQueryItemsPaginatedExactLimitWithFinalPage(t *testing.T) {
	api := &pagingDynamoAPI{pages: []*dynamodb.QueryOutput{
		{Items: []map[string]types.AttributeValue{messageItem("t2"), messageItem("t1")}},
	}}
	svc := &DynamoService{Client: api}

	items, nextKey, err := svc.QueryItemsPaginated(context.Background(), "Messages",
		"#conversationId = :conversationId",
		map[string]types.AttributeValue{":conversationId": &types.AttributeValueMemberS{Value: "conv-1"}},
		map[string]string{"#conversationId": "conversationId"},
		2, false, nil, []string{"conversationId", "createdAt"})
	require.NoError(t, err)

	assert.Len(t, items, 2)
	assert.Nil(t, nextKey, "no continuation key and no lookahead row means done")
	require.Len(t, api.inputs, 1)
	require.NotNil(t, api.inputs[0].Limit)
	assert.Equal(t, int32(3), *api.inputs[0].Limit, "lookahead reads one past the requested limit")
}
