// Package directory looks up user display names in the DynamoDB users table.
package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// GetItemAPI is the part of the DynamoDB client used here.
type GetItemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type Directory struct {
	client    GetItemAPI
	tableName string
	keyName   string
}

func New(client GetItemAPI, tableName, keyName string) *Directory {
	return &Directory{client: client, tableName: tableName, keyName: keyName}
}

// DisplayName returns the stored name for userID, or "" when the user or the
// name is not found. It prefers "name", then "firstName lastName".
func (d *Directory) DisplayName(ctx context.Context, userID string) (string, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			d.keyName: &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return "", fmt.Errorf("get user %s from %s: %w", userID, d.tableName, err)
	}
	if result.Item == nil {
		return "", nil
	}

	if name := stringAttr(result.Item, "name"); name != "" {
		return name, nil
	}
	first := stringAttr(result.Item, "firstName")
	last := stringAttr(result.Item, "lastName")
	return strings.TrimSpace(first + " " + last), nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return strings.TrimSpace(v.Value)
	}
	return ""
}
