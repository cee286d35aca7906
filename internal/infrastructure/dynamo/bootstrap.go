package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/tips-admin-api/internal/config"
)

type tableSchema struct {
	name    string
	hash    string
	rng     string
	indexes []string // hash-only GSIs named "<attr>-index"
	ttl     string
}

func schemas(tables config.DynamoTables) []tableSchema {
	return []tableSchema{
		{name: tables.Users, hash: "user_id", indexes: []string{"username", "email", "phone"}},
		{name: tables.Sessions, hash: "session_id"},
		{name: tables.UserVerifications, hash: "user_id", rng: "type", ttl: "expires_at"},
		{name: tables.Resources, hash: "resource", rng: "record_id"},
	}
}

// Bootstrap creates the tables and GSIs that are missing. Existing tables are left alone.
func Bootstrap(ctx context.Context, api API, tables config.DynamoTables) {
	for _, s := range schemas(tables) {
		createTable(ctx, api, s.input())
		if s.ttl != "" {
			enableTTL(ctx, api, s.name, s.ttl)
		}
	}
}

// Ping checks that every table exists and is reachable.
func Ping(ctx context.Context, api API, tables config.DynamoTables) error {
	for _, s := range schemas(tables) {
		if _, err := api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(s.name)}); err != nil {
			return fmt.Errorf("describe %s: %w", s.name, err)
		}
	}
	return nil
}

func (s tableSchema) input() *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{strAttr(s.hash)}
	keys := []types.KeySchemaElement{{AttributeName: aws.String(s.hash), KeyType: types.KeyTypeHash}}
	if s.rng != "" {
		attrs = append(attrs, strAttr(s.rng))
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(s.rng), KeyType: types.KeyTypeRange})
	}
	in := &dynamodb.CreateTableInput{
		TableName:            aws.String(s.name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs,
		KeySchema:            keys,
	}
	for _, attr := range s.indexes {
		in.AttributeDefinitions = append(in.AttributeDefinitions, strAttr(attr))
		in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName:  aws.String(attr + "-index"),
			KeySchema:  []types.KeySchemaElement{{AttributeName: aws.String(attr), KeyType: types.KeyTypeHash}},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	return in
}

func strAttr(name string) types.AttributeDefinition {
	return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
}

func createTable(ctx context.Context, api API, input *dynamodb.CreateTableInput) {
	_, err := api.CreateTable(ctx, input)
	var inUse *types.ResourceInUseException
	switch {
	case err == nil:
		slog.InfoContext(ctx, "created table", "table", *input.TableName)
	case errors.As(err, &inUse):
	default:
		slog.WarnContext(ctx, "could not create table", "table", *input.TableName, "err", err)
	}
}

func enableTTL(ctx context.Context, api API, tableName, attr string) {
	_, err := api.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(attr),
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "could not enable TTL", "table", tableName, "err", err)
	}
}
