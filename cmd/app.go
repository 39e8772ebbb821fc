package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/stratus-cli/stratus/internal/aws"
	"github.com/stratus-cli/stratus/internal/config"
	"github.com/stratus-cli/stratus/internal/gcp"
	"github.com/stratus-cli/stratus/internal/ui"
)

// app wires the config, secret store, credential materializer and
// inventory providers together for one command invocation. All lazy
// process-wide state (credential, feed cache, version map) lives inside
// the providers it holds.
type app struct {
	cfg *config.Config
	aws *aws.Client
	mat *gcp.Materializer
	sql *gcp.SQLProvider
	vm  *gcp.VMProvider
}

// newApp loads configuration and builds the provider stack.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	awsProfile := profile
	if awsProfile == "" {
		awsProfile = cfg.AWSProfile
	}
	awsRegion := region
	if awsRegion == "" {
		awsRegion = cfg.AWSRegion
	}

	awsClient, err := aws.NewClient(ctx,
		aws.WithProfile(awsProfile),
		aws.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	if cfg.Secret.ID == "" {
		return nil, fmt.Errorf("no secret id configured; set 'secret.id' in %s", config.GetConfigPath())
	}

	resolver := aws.NewSecretsResolver(awsClient)
	mat := gcp.NewMaterializer(resolver, cfg.Secret.ID, cfg.Secret.Label, cfg.CredentialsFile)

	policy := cfg.RetryPolicy()
	gcpClient := gcp.NewClient(gcp.WithMaterializer(mat))
	versions := gcp.NewVersionResolverForFeed(cfg.FeedURL, policy)

	return &app{
		cfg: cfg,
		aws: awsClient,
		mat: mat,
		sql: gcp.NewSQLProvider(gcpClient, versions, policy),
		vm:  gcp.NewVMProvider(gcpClient, policy),
	}, nil
}

// resolveProject turns the --project flag into a project ID. An empty flag
// falls back to the single configured project, or an interactive picker
// when running on a terminal.
func (a *app) resolveProject(flagValue string) (string, error) {
	if flagValue != "" {
		return a.cfg.ResolveProject(flagValue), nil
	}

	projects := a.cfg.ProjectList()
	switch {
	case len(projects) == 0:
		return "", fmt.Errorf("no projects configured; set 'projects' in %s", config.GetConfigPath())
	case len(projects) == 1:
		return projects[0].ID, nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("multiple projects configured; pass --project")
	}

	selected, err := ui.SelectProject(projects)
	if err != nil {
		return "", err
	}
	return selected.ID, nil
}

// cmdContext returns the context for one command run, honoring --timeout.
func cmdContext() (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
