// Package fgaclient wraps the OpenFGA SDK client for fetching authorization
// models from a remote store and submitting new model versions.
package fgaclient

// Note: all OpenFGA SDK calls are kept in the same file due to the namespace
// pollution which is the recommended way of using this SDK.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
	openfga "github.com/openfga/go-sdk"

	"github.com/nithish611/openfga-ui/internal/dsl"
	"github.com/nithish611/openfga-ui/internal/model"
	"github.com/nithish611/openfga-ui/internal/transform"

	. "github.com/openfga/go-sdk/client"
)

// Hard submission failures, checked before any network call. The validator's
// diagnostics never block a submit; these do.
var (
	ErrSchemaVersionRequired   = errors.New("schema_version is required")
	ErrTypeDefinitionsRequired = errors.New("at least one type definition is required")
)

// Config holds the remote service connection settings.
type Config struct {
	APIURL  string `envconfig:"FGA_API_URL" default:"http://localhost:8080"`
	StoreID string `envconfig:"FGA_STORE_ID"`
	ModelID string `envconfig:"FGA_MODEL_ID"`
	Debug   bool   `envconfig:"FGA_DEBUG"`
}

// LoadConfig reads the connection settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load fga config: %w", err)
	}
	return cfg, nil
}

// IFgaClient is an interface for the OpenFGA client operations used here.
type IFgaClient interface {
	ReadAuthorizationModel(ctx context.Context, options ClientReadAuthorizationModelOptions) (*ClientReadAuthorizationModelResponse, error)
	WriteAuthorizationModel(ctx context.Context, body ClientWriteAuthorizationModelRequest) (*ClientWriteAuthorizationModelResponse, error)
}

// FgaAdapter is a thin wrapper around the OpenFGA client.
type FgaAdapter struct {
	OpenFgaClient
}

// ReadAuthorizationModel executes a read request for one model version.
func (c FgaAdapter) ReadAuthorizationModel(ctx context.Context, options ClientReadAuthorizationModelOptions) (*ClientReadAuthorizationModelResponse, error) {
	return c.OpenFgaClient.ReadAuthorizationModel(ctx).Options(options).Execute()
}

// WriteAuthorizationModel executes a write request creating a new model version.
func (c FgaAdapter) WriteAuthorizationModel(ctx context.Context, body ClientWriteAuthorizationModelRequest) (*ClientWriteAuthorizationModelResponse, error) {
	return c.OpenFgaClient.WriteAuthorizationModel(ctx).Body(body).Execute()
}

// Connect initializes the client connection. Authentication is not
// configured; the remote service is expected to sit behind the UI's proxy.
func Connect(cfg Config) (IFgaClient, error) {
	fgaClient, err := NewSdkClient(&ClientConfiguration{
		ApiUrl:               cfg.APIURL,
		StoreId:              cfg.StoreID,
		AuthorizationModelId: cfg.ModelID,
	})
	if err != nil {
		return nil, err
	}
	return FgaAdapter{OpenFgaClient: *fgaClient}, nil
}

// Service exposes the model fetch and submit flows over an OpenFGA client.
type Service struct {
	client IFgaClient
	logger *slog.Logger
}

// NewService creates a Service. A nil logger falls back to slog.Default.
func NewService(client IFgaClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// FetchModel retrieves the authorization model with the given ID and converts
// it to the structured document form. An empty ID fetches the latest version.
func (s *Service) FetchModel(ctx context.Context, id string) (*model.AuthorizationModel, error) {
	options := ClientReadAuthorizationModelOptions{}
	if id != "" {
		options.AuthorizationModelId = openfga.PtrString(id)
	}

	resp, err := s.client.ReadAuthorizationModel(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("read authorization model: %w", err)
	}
	if resp.AuthorizationModel == nil {
		return nil, errors.New("remote service returned no authorization model")
	}

	s.logger.DebugContext(ctx, "fetched authorization model",
		"model_id", resp.AuthorizationModel.Id,
		"types", len(resp.AuthorizationModel.TypeDefinitions),
	)
	return transform.FromSDK(resp.AuthorizationModel), nil
}

// FetchDSL retrieves a model and renders it as DSL text.
func (s *Service) FetchDSL(ctx context.Context, id string, mode dsl.Mode) (string, error) {
	m, err := s.FetchModel(ctx, id)
	if err != nil {
		return "", err
	}
	return dsl.Serialize(m, mode), nil
}

// SubmitModel checks the required fields and writes a new authorization model
// version, returning its server-assigned ID. Models are immutable upstream;
// every submit creates a new version. A rejection by the remote service's own
// validation is surfaced verbatim in the wrapped error.
func (s *Service) SubmitModel(ctx context.Context, m *model.AuthorizationModel) (string, error) {
	if m.SchemaVersion == "" {
		return "", ErrSchemaVersionRequired
	}
	if len(m.TypeDefinitions) == 0 {
		return "", ErrTypeDefinitionsRequired
	}

	sdk := transform.ToSDK(m)
	body := ClientWriteAuthorizationModelRequest{
		SchemaVersion:   sdk.SchemaVersion,
		TypeDefinitions: sdk.TypeDefinitions,
		Conditions:      sdk.Conditions,
	}

	resp, err := s.client.WriteAuthorizationModel(ctx, body)
	if err != nil {
		return "", fmt.Errorf("write authorization model: %w", err)
	}

	s.logger.InfoContext(ctx, "authorization model written", "model_id", resp.AuthorizationModelId)
	return resp.AuthorizationModelId, nil
}

// SubmitDSL parses DSL text and submits the resulting model.
func (s *Service) SubmitDSL(ctx context.Context, text string) (string, error) {
	return s.SubmitModel(ctx, dsl.Parse(text))
}
