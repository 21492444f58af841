package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-clinic-api/internal/domain"
)

// RegistrationOTPRepo stores one pending sign-up code per email.
// Expired items are also reaped by DynamoDB TTL on expires_at.
type RegistrationOTPRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRegistrationOTPRepo(client *dynamodb.Client, tableName string) *RegistrationOTPRepo {
	return &RegistrationOTPRepo{client: client, tableName: tableName}
}

// Put replaces any previous code for the same email.
func (r *RegistrationOTPRepo) Put(ctx context.Context, o *domain.RegistrationOTP) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal registration otp: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RegistrationOTPRepo) Get(ctx context.Context, email string) (*domain.RegistrationOTP, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("registration otp not found: %w", domain.ErrNotFound)
	}
	var o domain.RegistrationOTP
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *RegistrationOTPRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	return err
}
