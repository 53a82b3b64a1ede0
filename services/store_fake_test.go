package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"piggies_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeStore is an in-memory DocumentStore for service tests. It understands
// the equality-only expression subset the services actually issue.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]types.AttributeValue
}

var fakeKeySchemas = map[string][]string{
	models.UsersTable:         {"userId"},
	models.ProfilesTable:      {"userId"},
	models.StatusTable:        {"userId"},
	models.ConversationsTable: {"participantPairKey"},
	models.MessagesTable:      {"conversationId", "createdAt"},
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string][]map[string]types.AttributeValue)}
}

func (f *fakeStore) mustPut(t interface{ Fatalf(string, ...interface{}) }, tableName string, item interface{}) {
	if err := f.PutItem(context.Background(), tableName, item); err != nil {
		t.Fatalf("seed put into %s failed: %v", tableName, err)
	}
}

func (f *fakeStore) count(tableName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[tableName])
}

func (f *fakeStore) GetItem(_ context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.tables[tableName] {
		if matchesAttrs(item, key) {
			return copyItem(item), nil
		}
	}
	return nil, ErrItemNotFound
}

func (f *fakeStore) PutItem(_ context.Context, tableName string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := f.keyOf(tableName, marshaled)
	rows := f.tables[tableName]
	for i, row := range rows {
		if matchesAttrs(row, key) {
			rows[i] = marshaled
			return nil
		}
	}
	f.tables[tableName] = append(rows, marshaled)
	return nil
}

func (f *fakeStore) PutItemIfAbsent(_ context.Context, tableName string, item interface{}, keyAttribute string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := map[string]types.AttributeValue{keyAttribute: marshaled[keyAttribute]}
	for _, row := range f.tables[tableName] {
		if matchesAttrs(row, key) {
			return ErrItemExists
		}
	}
	f.tables[tableName] = append(f.tables[tableName], marshaled)
	return nil
}

func (f *fakeStore) UpdateItem(_ context.Context, tableName, updateExpression string, key, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	if !strings.HasPrefix(updateExpression, "SET ") {
		return nil, fmt.Errorf("fake store only supports SET expressions, got %q", updateExpression)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var item map[string]types.AttributeValue
	for _, row := range f.tables[tableName] {
		if matchesAttrs(row, key) {
			item = row
			break
		}
	}
	if item == nil {
		item = copyItem(key)
		f.tables[tableName] = append(f.tables[tableName], item)
	}

	for _, clause := range strings.Split(strings.TrimPrefix(updateExpression, "SET "), ",") {
		parts := strings.SplitN(strings.TrimSpace(clause), " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fake store cannot parse clause %q", clause)
		}
		name := parts[0]
		if resolved, ok := expressionAttributeNames[name]; ok {
			name = resolved
		} else {
			name = strings.TrimPrefix(name, "#")
		}
		value, ok := expressionAttributeValues[parts[1]]
		if !ok {
			return nil, fmt.Errorf("fake store missing value for %q", parts[1])
		}
		item[name] = value
	}
	return copyItem(item), nil
}

func (f *fakeStore) DeleteItem(_ context.Context, tableName string, key map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.tables[tableName]
	for i, row := range rows {
		if matchesAttrs(row, key) {
			f.tables[tableName] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) QueryItemsWithIndex(_ context.Context, tableName, _, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	condition, err := parseEqualityCondition(keyConditionExpression, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var results []map[string]types.AttributeValue
	for _, row := range f.tables[tableName] {
		if matchesAttrs(row, condition) {
			results = append(results, copyItem(row))
			if int32(len(results)) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (f *fakeStore) QueryItemsPaginated(_ context.Context, tableName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32, scanForward bool, exclusiveStartKey map[string]types.AttributeValue, keyAttributes []string) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	condition, err := parseEqualityCondition(keyConditionExpression, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []map[string]types.AttributeValue
	for _, row := range f.tables[tableName] {
		if matchesAttrs(row, condition) {
			matched = append(matched, row)
		}
	}

	schema := fakeKeySchemas[tableName]
	if len(schema) > 1 {
		sortAttr := schema[1]
		sort.SliceStable(matched, func(i, j int) bool {
			return stringAttr(matched[i], sortAttr) < stringAttr(matched[j], sortAttr)
		})
	}
	if !scanForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := 0
	if len(exclusiveStartKey) > 0 {
		for i, row := range matched {
			if matchesAttrs(row, exclusiveStartKey) {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	if int32(len(matched)) <= limit {
		results := make([]map[string]types.AttributeValue, len(matched))
		for i, row := range matched {
			results[i] = copyItem(row)
		}
		return results, nil, nil
	}

	page := matched[:limit]
	results := make([]map[string]types.AttributeValue, len(page))
	for i, row := range page {
		results[i] = copyItem(row)
	}
	nextKey := make(map[string]types.AttributeValue, len(keyAttributes))
	for _, attr := range keyAttributes {
		if value, ok := page[len(page)-1][attr]; ok {
			nextKey[attr] = value
		}
	}
	return results, nextKey, nil
}

func (f *fakeStore) ScanWithFilter(_ context.Context, tableName, filterExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, filterFunc func(map[string]types.AttributeValue) bool, result interface{}) error {
	var condition map[string]types.AttributeValue
	if filterExpression != "" {
		parsed, err := parseEqualityConjunction(filterExpression, expressionAttributeValues, expressionAttributeNames)
		if err != nil {
			return err
		}
		condition = parsed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var filtered []map[string]types.AttributeValue
	for _, row := range f.tables[tableName] {
		if condition != nil && !matchesAttrs(row, condition) {
			continue
		}
		if filterFunc == nil || filterFunc(row) {
			filtered = append(filtered, copyItem(row))
		}
	}
	return attributevalue.UnmarshalListOfMaps(filtered, result)
}

func (f *fakeStore) keyOf(tableName string, item map[string]types.AttributeValue) map[string]types.AttributeValue {
	key := make(map[string]types.AttributeValue)
	for _, attr := range fakeKeySchemas[tableName] {
		key[attr] = item[attr]
	}
	return key
}

func matchesAttrs(item, attrs map[string]types.AttributeValue) bool {
	for name, value := range attrs {
		existing, ok := item[name]
		if !ok || !attrEqual(existing, value) {
			return false
		}
	}
	return true
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if value, ok := item[name].(*types.AttributeValueMemberS); ok {
		return value.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	copied := make(map[string]types.AttributeValue, len(item))
	for name, value := range item {
		copied[name] = value
	}
	return copied
}

// parseEqualityCondition turns "attr = :ph" (attr possibly aliased with a
// leading #) into resolved attribute/value pairs.
func parseEqualityCondition(expression string, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return parseEqualityConjunction(expression, values, names)
}

func parseEqualityConjunction(expression string, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	condition := make(map[string]types.AttributeValue)
	for _, clause := range strings.Split(expression, " AND ") {
		parts := strings.SplitN(strings.TrimSpace(clause), " = ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fake store cannot parse condition %q", clause)
		}
		name := parts[0]
		if resolved, ok := names[name]; ok {
			name = resolved
		} else {
			name = strings.TrimPrefix(name, "#")
		}
		value, ok := values[parts[1]]
		if !ok {
			return nil, fmt.Errorf("fake store missing value for %q", parts[1])
		}
		condition[name] = value
	}
	return condition, nil
}
