package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/tips-admin-api/internal/config"
	"github.com/tips-admin-api/internal/infrastructure/awsconf"
)

// NewClient creates the DynamoDB client for every table repo.
// cfg.AWSEndpointURL, when set, sends all traffic to LocalStack.
func NewClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	awsCfg, err := awsconf.Load(ctx, cfg, "")
	if err != nil {
		return nil, err
	}
	endpoint := awsconf.Endpoint(cfg)
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = endpoint
	}), nil
}
