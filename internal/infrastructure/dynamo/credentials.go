package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dat-archive/internal/domain"
)

// API is the subset of *dynamodb.Client used by CredentialRepo.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// CredentialRepo stores one pending verification code per email.
// PK: email. expires_at doubles as the table's TTL attribute.
type CredentialRepo struct {
	client    API
	tableName string
}

func NewCredentialRepo(client API, tableName string) *CredentialRepo {
	return &CredentialRepo{client: client, tableName: tableName}
}

// Upsert overwrites any credential already stored for c.Email.
func (r *CredentialRepo) Upsert(ctx context.Context, c *domain.VerificationCredential) error {
	stored := *c
	stored.ExpiresAt = ceilSecond(c.ExpiresAt)
	item, err := attributevalue.MarshalMap(&stored)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

func (r *CredentialRepo) Get(ctx context.Context, email string) (*domain.VerificationCredential, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("credential not found: %w", domain.ErrNotFound)
	}
	var c domain.VerificationCredential
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal credential: %w", err)
	}
	return &c, nil
}

func (r *CredentialRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldEmail, email),
	})
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// Consume deletes the credential only if it still holds code.
// It reports true when this call removed the item, so of several concurrent
// callers presenting the same code at most one wins.
func (r *CredentialRepo) Consume(ctx context.Context, email, code string) (bool, error) {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldEmail, email),
		ConditionExpression: aws.String("#c = :code"),
		ExpressionAttributeNames: map[string]string{
			"#c": fieldCode,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":code": &types.AttributeValueMemberS{Value: code},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, fmt.Errorf("consume credential: %w", err)
	}
	return true, nil
}
