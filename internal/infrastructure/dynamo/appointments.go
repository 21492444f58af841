package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-clinic-api/internal/domain"
)

type AppointmentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAppointmentRepo(client *dynamodb.Client, tableName string) *AppointmentRepo {
	return &AppointmentRepo{client: client, tableName: tableName}
}

func (r *AppointmentRepo) Put(ctx context.Context, a *domain.Appointment) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal appointment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(appointment_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("appointment id collision: %w", domain.ErrConflict)
	}
	return err
}

func (r *AppointmentRepo) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldAppointmentID, id),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("appointment not found: %w", domain.ErrNotFound)
	}
	var a domain.Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ScanAll returns every appointment in table order. Callers sort.
func (r *AppointmentRepo) ScanAll(ctx context.Context) ([]domain.Appointment, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	var all []domain.Appointment
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var batch []domain.Appointment
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

// Update applies a partial update keyed by attribute name and returns the
// stored appointment after the change.
func (r *AppointmentRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Appointment, error) {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldAppointmentID, id),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(appointment_id)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.condValues(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if isConditionFailed(err) {
		return nil, fmt.Errorf("appointment not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var a domain.Appointment
	if err := attributevalue.UnmarshalMap(out.Attributes, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldAppointmentID, id),
		ConditionExpression: aws.String("attribute_exists(appointment_id)"),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("appointment not found: %w", domain.ErrNotFound)
	}
	return err
}

// BackfillStatus sets status to Pending on every appointment that has none
// and returns how many items were changed. Items updated concurrently by
// someone else are skipped.
func (r *AppointmentRepo) BackfillStatus(ctx context.Context) (int, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     aws.String("#id"),
		FilterExpression:         aws.String("attribute_not_exists(#s)"),
		ExpressionAttributeNames: map[string]string{"#id": fieldAppointmentID, "#s": fieldStatus},
	})
	now := time.Now().UTC()
	updated := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return updated, err
		}
		for _, item := range page.Items {
			idAttr, ok := item[fieldAppointmentID].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			ue, err := buildUpdateExpr(map[string]interface{}{
				fieldStatus:    domain.AppointmentPending,
				fieldUpdatedAt: now,
			})
			if err != nil {
				return updated, err
			}
			ue.Names["#s"] = fieldStatus
			_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
				TableName:                 aws.String(r.tableName),
				Key:                       strKey(fieldAppointmentID, idAttr.Value),
				UpdateExpression:          aws.String(ue.Expr),
				ConditionExpression:       aws.String("attribute_exists(appointment_id) AND attribute_not_exists(#s)"),
				ExpressionAttributeNames:  ue.Names,
				ExpressionAttributeValues: ue.Values,
			})
			if isConditionFailed(err) {
				continue
			}
			if err != nil {
				return updated, fmt.Errorf("backfill %s: %w", idAttr.Value, err)
			}
			updated++
		}
	}
	return updated, nil
}
