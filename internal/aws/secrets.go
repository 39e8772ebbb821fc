package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// secretsManagerAPI is the slice of the Secrets Manager client we use.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ssmAPI is the slice of the SSM client we use.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsResolver implements provider.SecretResolver on top of AWS.
// It supports both SSM Parameter Store and Secrets Manager: identifiers
// starting with "/" are parameter paths, everything else is a secret name.
type SecretsResolver struct {
	sm  secretsManagerAPI
	ssm ssmAPI
}

// NewSecretsResolver creates a resolver backed by the given client.
func NewSecretsResolver(client *Client) *SecretsResolver {
	return &SecretsResolver{
		sm:  client.SecretsManager,
		ssm: client.SSM,
	}
}

// GetSecretValue returns the raw payload for the secret. The label selects
// a Secrets Manager version stage or an SSM parameter label; empty means
// the current version.
func (r *SecretsResolver) GetSecretValue(ctx context.Context, secretID, label string) (string, error) {
	if len(secretID) > 0 && secretID[0] == '/' {
		return r.getSSMParameter(ctx, secretID, label)
	}
	return r.getSecretsManager(ctx, secretID, label)
}

func (r *SecretsResolver) getSSMParameter(ctx context.Context, path, label string) (string, error) {
	name := path
	if label != "" {
		// SSM selects labeled versions with a "name:label" selector
		name = path + ":" + label
	}

	output, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get SSM parameter %s: %w", path, err)
	}

	return aws.ToString(output.Parameter.Value), nil
}

func (r *SecretsResolver) getSecretsManager(ctx context.Context, name, label string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	}
	if label != "" {
		input.VersionStage = aws.String(label)
	}

	output, err := r.sm.GetSecretValue(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	return aws.ToString(output.SecretString), nil
}
