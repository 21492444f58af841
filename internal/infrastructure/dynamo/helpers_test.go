package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-clinic-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"status": "Complete"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "status"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"service":     "Dental",
		"father_name": "Ahmed",
		"age":         31,
	}
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)
	assert.Equal(t, "age", ue1.Names["#f0"])
	assert.Equal(t, "father_name", ue1.Names["#f1"])
	assert.Equal(t, "service", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_SetAndRemove(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldPasswordHash: "hash"}, fieldResetOTP, fieldResetOTPExpires)
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0 REMOVE #r0, #r1", ue.Expr)
	assert.Equal(t, fieldResetOTP, ue.Names["#r0"])
	assert.Equal(t, fieldResetOTPExpires, ue.Names["#r1"])
}

func TestBuildUpdateExpr_RemoveOnly_HasNilValues(t *testing.T) {
	ue, err := buildUpdateExpr(nil, fieldResetOTP)
	require.NoError(t, err)
	assert.Equal(t, "REMOVE #r0", ue.Expr)
	assert.Nil(t, ue.condValues())
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"age": 42})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	n, isNum := av.(*types.AttributeValueMemberN)
	require.True(t, isNum)
	assert.Equal(t, "42", n.Value)
}

func TestBuildUpdateExpr_Empty_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestIsConditionFailed(t *testing.T) {
	wrapped := fmt.Errorf("update: %w", &types.ConditionalCheckFailedException{})
	assert.True(t, isConditionFailed(wrapped))
	assert.False(t, isConditionFailed(errors.New("boom")))
}

func TestUniqueConflict_MapsCancellationReason(t *testing.T) {
	failed := "ConditionalCheckFailed"
	none := "None"
	err := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: &none}, {Code: &none}, {Code: &failed}},
	}
	assert.Equal(t, domain.ErrUsernameTaken, uniqueConflict(err))

	err.CancellationReasons = []types.CancellationReason{{Code: &none}, {Code: &failed}, {Code: &none}}
	assert.Equal(t, domain.ErrEmailTaken, uniqueConflict(err))

	assert.Nil(t, uniqueConflict(errors.New("boom")))
}
