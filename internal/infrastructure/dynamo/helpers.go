package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a ready-to-send UpdateExpression with its placeholder maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts field->value pairs into a SET clause and the
// given attribute names into a REMOVE clause. Fields are sorted so the
// expression is deterministic.
func buildUpdateExpr(set map[string]interface{}, remove ...string) (*updateExpr, error) {
	if len(set) == 0 && len(remove) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	ue := &updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clauses []string
	if len(keys) > 0 {
		parts := make([]string, 0, len(keys))
		for i, k := range keys {
			nameKey := fmt.Sprintf("#f%d", i)
			valueKey := fmt.Sprintf(":v%d", i)
			av, err := attributevalue.Marshal(set[k])
			if err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", k, err)
			}
			ue.Names[nameKey] = k
			ue.Values[valueKey] = av
			parts = append(parts, nameKey+" = "+valueKey)
		}
		clauses = append(clauses, "SET "+strings.Join(parts, ", "))
	}
	if len(remove) > 0 {
		parts := make([]string, 0, len(remove))
		for i, k := range remove {
			nameKey := fmt.Sprintf("#r%d", i)
			ue.Names[nameKey] = k
			parts = append(parts, nameKey)
		}
		clauses = append(clauses, "REMOVE "+strings.Join(parts, ", "))
	}
	ue.Expr = strings.Join(clauses, " ")
	return ue, nil
}

// condValues returns the expression values, nil when empty: DynamoDB rejects
// an empty ExpressionAttributeValues map.
func (ue *updateExpr) condValues() map[string]types.AttributeValue {
	if len(ue.Values) == 0 {
		return nil
	}
	return ue.Values
}

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
