package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrItemNotFound is returned when a keyed lookup finds no record.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemExists is returned by PutItemIfAbsent when the key is taken.
	ErrItemExists = errors.New("item already exists")
	// ErrUserNotFound is returned by writes that require an existing user.
	ErrUserNotFound = errors.New("user not found")
)

// DocumentStore is the exact capability set the domain services need from the
// document database: typed get/insert/patch/query operations, nothing more.
// *DynamoService is the production implementation; tests supply an in-memory
// one.
type DocumentStore interface {
	GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, tableName string, item interface{}) error
	PutItemIfAbsent(ctx context.Context, tableName string, item interface{}, keyAttribute string) error
	UpdateItem(ctx context.Context, tableName string, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error)
	DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error
	QueryItemsWithIndex(ctx context.Context, tableName, indexName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error)
	QueryItemsPaginated(ctx context.Context, tableName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32, scanForward bool, exclusiveStartKey map[string]types.AttributeValue, keyAttributes []string) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error)
	ScanWithFilter(ctx context.Context, tableName, filterExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, filterFunc func(map[string]types.AttributeValue) bool, result interface{}) error
}
