package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/pkg/definition"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/resolver"
	"github.com/goliatone/go-intake/pkg/submission"
)

// app carries the process collaborators so commands can be driven from
// tests with buffers and a scripted prompt driver.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	stdin      io.Reader
	driver     tui.PromptDriver
	loadConfig func() (config.Config, error)
	// exitHandler replaces the default os.Exit behaviour of cli.Exit errors.
	exitHandler cli.ExitErrHandlerFunc
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:           "intake",
		Usage:          "Serve, prompt for, and validate patient intake forms",
		Writer:         a.stdout,
		ErrWriter:      a.stderr,
		Reader:         a.stdin,
		ExitErrHandler: a.exitHandler,
		Commands: []*cli.Command{
			a.serveCommand(),
			a.promptCommand(),
			a.validateCommand(),
			a.renderCommand(),
		},
	}
}

// sourceFlags select where the form definition comes from. Without any of
// them the embedded patient form is used.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "form",
			Aliases: []string{"f"},
			Usage:   "YAML form definition (overrides INTAKE_FORM_FILE)",
		},
		&cli.StringFlag{
			Name:  "openapi",
			Usage: "OpenAPI document to derive the form from",
		},
		&cli.StringFlag{
			Name:  "operation",
			Usage: "operationId whose request body describes the form",
		},
		&cli.StringFlag{
			Name:  "country",
			Usage: "default region for phone numbers (overrides INTAKE_DEFAULT_COUNTRY)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn, or error (overrides INTAKE_LOG_LEVEL)",
		},
	}
}

func submitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "submit-url",
			Usage: "endpoint receiving accepted submissions; with --openapi this is the API base URL",
		},
		&cli.DurationFlag{
			Name:  "submit-timeout",
			Usage: "timeout for one submission request",
		},
	}
}

// settings loads the environment configuration and applies flag overrides.
func (a *app) settings(cmd *cli.Command) (config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	overrides := map[string]*string{
		"form":       &cfg.FormFile,
		"country":    &cfg.DefaultCountry,
		"log-level":  &cfg.LogLevel,
		"submit-url": &cfg.SubmitURL,
		"addr":       &cfg.Addr,
	}
	for name, target := range overrides {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}
	if cmd.IsSet("submit-timeout") {
		cfg.SubmitTimeout = cmd.Duration("submit-timeout")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session is the wiring shared by every command.
type session struct {
	cfg        config.Config
	logger     *slog.Logger
	definition definition.Definition
	endpoint   *definition.Endpoint
	resolver   *resolver.Resolver
}

func (a *app) session(ctx context.Context, cmd *cli.Command) (*session, error) {
	cfg, err := a.settings(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{
		cfg:      cfg,
		logger:   cfg.Logger(a.stderr),
		resolver: resolver.New(resolver.WithDefaultCountry(cfg.DefaultCountry)),
	}

	switch path := strings.TrimSpace(cmd.String("openapi")); {
	case path != "":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("intake: read openapi document: %w", err)
		}
		form, schema, endpoint, err := definition.FromOpenAPI(ctx, raw, cmd.String("operation"))
		if err != nil {
			return nil, err
		}
		s.definition = definition.Definition{Form: form, Schema: schema}
		s.endpoint = &endpoint
	case cfg.FormFile != "":
		def, err := definition.LoadFile(cfg.FormFile)
		if err != nil {
			return nil, err
		}
		s.definition = def
	default:
		s.definition = definition.PatientDefinition()
	}

	s.logger.Debug("definition.loaded",
		slog.String("form", s.definition.Form.ID),
		slog.Int("fields", len(s.definition.Form.Fields)),
	)
	return s, nil
}

// submitter posts to the configured endpoint, or logs accepted patients when
// no endpoint is configured.
func (s *session) submitter() (submission.Submitter, error) {
	target := strings.TrimSpace(s.cfg.SubmitURL)
	if target == "" {
		return submission.LogSubmitter{Logger: s.logger}, nil
	}
	if s.endpoint != nil {
		joined, err := s.endpoint.URL(target)
		if err != nil {
			return nil, err
		}
		target = joined
	}
	return submission.HTTPSubmitter{
		URL:    target,
		Client: &http.Client{Timeout: s.cfg.SubmitTimeout},
	}, nil
}

func (s *session) coordinator() (*submission.Coordinator, error) {
	submitter, err := s.submitter()
	if err != nil {
		return nil, err
	}
	return submission.NewCoordinator(submitter,
		submission.WithEngine(s.definition.Engine()),
		submission.WithLogger(s.logger),
	), nil
}
