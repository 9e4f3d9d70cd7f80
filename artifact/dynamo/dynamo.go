// Package dynamo provides an artifact.Source backed by Amazon DynamoDB.
//
// Each category is stored as one item keyed by its name:
//
//	aws dynamodb create-table \
//	  --table-name orb-catalog \
//	  --attribute-definitions AttributeName=category,AttributeType=S \
//	  --key-schema AttributeName=category,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//
// The item carries "template_names" as a list of strings and
// "descriptors_list" as a list of base64 strings or raw binary values.
// DynamoDB items are limited to 400KB, so this backend suits small
// categories; larger catalogs belong in a blob store.
package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/orbmatch/artifact"
)

const (
	keyAttr         = "category"
	namesAttr       = "template_names"
	descriptorsAttr = "descriptors_list"
)

// Client is the interface for DynamoDB operations.
// *dynamodb.Client satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Source reads and writes category artifacts in a DynamoDB table.
type Source struct {
	client    Client
	tableName string
}

// NewSource creates a new DynamoDB-backed source.
func NewSource(client Client, tableName string) *Source {
	return &Source{client: client, tableName: tableName}
}

// New loads the default AWS configuration and returns a Source for the table.
func New(ctx context.Context, tableName string, optFns ...func(*config.LoadOptions) error) (*Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("dynamo: load aws config: %w", err)
	}
	return NewSource(dynamodb.NewFromConfig(cfg), tableName), nil
}

// Read fetches the category's item with a strongly consistent read.
func (s *Source) Read(ctx context.Context, category string) (*artifact.Artifact, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			keyAttr: &types.AttributeValueMemberS{Value: category},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo: get item %s: %w", category, err)
	}
	if len(resp.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", artifact.ErrNotFound, category)
	}

	names, err := stringList(resp.Item, namesAttr, false)
	if err != nil {
		return nil, err
	}
	descriptors, err := stringList(resp.Item, descriptorsAttr, true)
	if err != nil {
		return nil, err
	}

	return &artifact.Artifact{TemplateNames: names, DescriptorsList: descriptors}, nil
}

// Write stores the category's artifact, replacing any previous item.
func (s *Source) Write(ctx context.Context, category string, a *artifact.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			keyAttr:         &types.AttributeValueMemberS{Value: category},
			namesAttr:       toList(a.TemplateNames),
			descriptorsAttr: toList(a.DescriptorsList),
		},
	})
	if err != nil {
		return fmt.Errorf("dynamo: put item %s: %w", category, err)
	}
	return nil
}

// stringList extracts a list attribute. An absent attribute yields nil so
// that validation reports it; a present attribute always yields a non-nil slice.
func stringList(item map[string]types.AttributeValue, attr string, allowBinary bool) ([]string, error) {
	v, ok := item[attr]
	if !ok {
		return nil, nil
	}

	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", artifact.ErrMalformed, attr)
	}

	out := make([]string, 0, len(l.Value))
	for i, elem := range l.Value {
		switch e := elem.(type) {
		case *types.AttributeValueMemberS:
			out = append(out, e.Value)
		case *types.AttributeValueMemberB:
			if !allowBinary {
				return nil, fmt.Errorf("%w: %s[%d] is binary", artifact.ErrMalformed, attr, i)
			}
			out = append(out, base64.StdEncoding.EncodeToString(e.Value))
		case *types.AttributeValueMemberNULL:
			out = append(out, "")
		default:
			return nil, fmt.Errorf("%w: %s[%d] has unsupported type %T", artifact.ErrMalformed, attr, i, elem)
		}
	}
	return out, nil
}

func toList(values []string) *types.AttributeValueMemberL {
	l := make([]types.AttributeValue, len(values))
	for i, v := range values {
		l[i] = &types.AttributeValueMemberS{Value: v}
	}
	return &types.AttributeValueMemberL{Value: l}
}
