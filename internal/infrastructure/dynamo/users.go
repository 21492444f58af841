package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-clinic-api/internal/domain"
)

// Positions of the items written by UserRepo.Create's transaction. DynamoDB
// reports cancellation reasons in the same order.
const (
	txUser = iota
	txEmailGuard
	txUsernameGuard
)

// UserRepo provides typed DynamoDB operations for the users table.
// Email and username uniqueness is enforced through guard items in a
// separate table (PK: unique_key, e.g. "email#a@gmail.com").
type UserRepo struct {
	client       *dynamodb.Client
	tableName    string
	uniquesTable string
}

func NewUserRepo(client *dynamodb.Client, tableName, uniquesTable string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, uniquesTable: uniquesTable}
}

func emailGuardKey(email string) string       { return "email#" + email }
func usernameGuardKey(username string) string { return "username#" + username }

// Create writes the user together with its email and username guards in one
// transaction. A duplicate email or username fails with ErrEmailTaken or
// ErrUsernameTaken even when two registrations race past the read checks.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	items := make([]types.TransactWriteItem, 3)
	items[txUser] = types.TransactWriteItem{Put: &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	}}
	items[txEmailGuard] = r.guardPut(emailGuardKey(u.Email), u.UserID)
	items[txUsernameGuard] = r.guardPut(usernameGuardKey(u.Username), u.UserID)

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) guardPut(key, userID string) types.TransactWriteItem {
	return types.TransactWriteItem{Put: &types.Put{
		TableName: aws.String(r.uniquesTable),
		Item: map[string]types.AttributeValue{
			fieldUniqueKey: &types.AttributeValueMemberS{Value: key},
			fieldUserID:    &types.AttributeValueMemberS{Value: userID},
		},
		ConditionExpression: aws.String("attribute_not_exists(unique_key)"),
	}}
}

// uniqueConflict maps a cancelled create transaction to the guard that failed.
// It returns nil when err is not a conditional cancellation.
func uniqueConflict(err error) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil
	}
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
			continue
		}
		switch i {
		case txEmailGuard:
			return domain.ErrEmailTaken
		case txUsernameGuard:
			return domain.ErrUsernameTaken
		default:
			return fmt.Errorf("user id collision: %w", domain.ErrConflict)
		}
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUserID, userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryGSI(ctx, "username-index", fieldUsername, username)
}

// GetByEmail expects an already normalised (lowercased) address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, "email-index", fieldEmail, email)
}

// SetResetOTP stores a pending password-reset code on an existing user.
func (r *UserRepo) SetResetOTP(ctx context.Context, userID, code string, expiresAt int64) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldResetOTP:        code,
		fieldResetOTPExpires: expiresAt,
		fieldUpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.condValues(),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

// ResetPassword replaces the password hash and removes the reset-OTP fields,
// only if code is still the stored reset OTP and has not expired at now.
// A code can therefore be consumed at most once.
func (r *UserRepo) ResetPassword(ctx context.Context, userID, code, passwordHash string, now time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldPasswordHash: passwordHash,
		fieldUpdatedAt:    now.UTC(),
	}, fieldResetOTP, fieldResetOTPExpires)
	if err != nil {
		return err
	}
	ue.Names["#otp"] = fieldResetOTP
	ue.Names["#exp"] = fieldResetOTPExpires
	ue.Values[":otp"] = &types.AttributeValueMemberS{Value: code}
	ue.Values[":now"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#otp = :otp AND #exp > :now"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return domain.ErrInvalidOTP
	}
	return err
}

// ListSummaries scans every user, projecting only the admin-visible fields.
func (r *UserRepo) ListSummaries(ctx context.Context) ([]domain.UserSummary, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:            aws.String(r.tableName),
		ProjectionExpression: aws.String("#u, #e, #c"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUsername,
			"#e": fieldEmail,
			"#c": fieldCreatedAt,
		},
	})
	var users []domain.UserSummary
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.UserSummary
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		users = append(users, batch...)
	}
	return users, nil
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
