package gcp

import (
	"context"
	"fmt"
	"strings"

	sqladmin "google.golang.org/api/sqladmin/v1"

	"github.com/stratus-cli/stratus/internal/retry"
	"github.com/stratus-cli/stratus/pkg/provider"
	"github.com/stratus-cli/stratus/pkg/types"
)

// engineNames maps databaseVersion code prefixes to engine display names.
var engineNames = map[string]string{
	"MYSQL":     "MySQL",
	"POSTGRES":  "PostgreSQL",
	"SQLSERVER": "SQL Server",
}

// SQLProvider lists Cloud SQL instances, decorated with the engine display
// name and the full engine version from the release notes.
type SQLProvider struct {
	client   *Client
	versions *VersionResolver
	policy   retry.Policy
}

// NewSQLProvider creates a Cloud SQL provider backed by the given Client.
func NewSQLProvider(client *Client, versions *VersionResolver, policy retry.Policy) *SQLProvider {
	return &SQLProvider{
		client:   client,
		versions: versions,
		policy:   policy,
	}
}

// parseDatabaseVersion splits an ENGINE_MAJOR_MINOR code into the engine
// display name and the dotted major.minor string.
func parseDatabaseVersion(code string) (engine, majorMinor string, err error) {
	parts := strings.SplitN(code, "_", 2)

	engine, ok := engineNames[parts[0]]
	if !ok || len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q", provider.ErrUnknownEngine, code)
	}

	return engine, strings.ReplaceAll(parts[1], "_", "."), nil
}

// List returns the project's Cloud SQL instances. The whole call is
// retried on transient transport failures; decoration failures are
// permanent.
func (p *SQLProvider) List(ctx context.Context, projectID string) ([]types.SQLInstance, error) {
	var instances []types.SQLInstance

	err := retry.Do(ctx, p.policy, func() error {
		instances = nil

		opts, err := p.client.apiOptions(ctx)
		if err != nil {
			return err
		}

		svc, err := sqladmin.NewService(ctx, opts...)
		if err != nil {
			return fmt.Errorf("create sqladmin service: %w", err)
		}

		resp, err := svc.Instances.List(projectID).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("list sql instances: %w", err)
		}

		for _, item := range resp.Items {
			inst, err := p.decorate(ctx, projectID, item)
			if err != nil {
				return err
			}
			instances = append(instances, inst)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if instances == nil {
		instances = []types.SQLInstance{}
	}
	return instances, nil
}

// decorate converts a raw DatabaseInstance and adds the derived engine
// name and full version.
func (p *SQLProvider) decorate(ctx context.Context, projectID string, item *sqladmin.DatabaseInstance) (types.SQLInstance, error) {
	engine, majorMinor, err := parseDatabaseVersion(item.DatabaseVersion)
	if err != nil {
		return types.SQLInstance{}, err
	}

	full, err := p.versions.Resolve(ctx, engine, majorMinor)
	if err != nil {
		return types.SQLInstance{}, err
	}

	inst := types.SQLInstance{
		Name:            item.Name,
		Project:         projectID,
		Region:          item.Region,
		State:           item.State,
		ConnectionName:  item.ConnectionName,
		DatabaseVersion: item.DatabaseVersion,
		EngineName:      engine + " " + majorMinor,
		EngineVersion:   full,
		Raw:             item,
	}
	if item.Settings != nil {
		inst.Tier = item.Settings.Tier
	}
	return inst, nil
}
