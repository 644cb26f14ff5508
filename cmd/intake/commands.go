package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/renderers/vanilla"
	"github.com/goliatone/go-intake/pkg/server"
	"github.com/goliatone/go-intake/pkg/submission"
	"github.com/goliatone/go-intake/pkg/validation"
)

const defaultAttempts = 3

func (a *app) serveCommand() *cli.Command {
	flags := append(sourceFlags(), submitFlags()...)
	flags = append(flags, &cli.StringFlag{
		Name:  "addr",
		Usage: "listen address (overrides INTAKE_ADDR)",
	})
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the form over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.session(ctx, cmd)
			if err != nil {
				return err
			}
			coordinator, err := s.coordinator()
			if err != nil {
				return err
			}
			renderer, err := vanilla.New(vanilla.WithResolver(s.resolver))
			if err != nil {
				return err
			}
			handler, err := server.New(s.definition.Form, renderer, coordinator,
				server.WithResolver(s.resolver),
				server.WithLogger(s.logger),
				server.WithAssets(intake.EmbeddedAssets()),
			)
			if err != nil {
				return err
			}
			return server.ListenAndServe(ctx, s.cfg.Addr, handler, s.cfg.ShutdownGrace, s.logger)
		},
	}
}

func (a *app) promptCommand() *cli.Command {
	flags := append(sourceFlags(), submitFlags()...)
	flags = append(flags, &cli.IntFlag{
		Name:  "attempts",
		Usage: "how many times a rejected form is presented again",
		Value: defaultAttempts,
	})
	return &cli.Command{
		Name:  "prompt",
		Usage: "Fill the form in the terminal and submit it",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.session(ctx, cmd)
			if err != nil {
				return err
			}
			coordinator, err := s.coordinator()
			if err != nil {
				return err
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(a.driver),
				tui.WithResolver(s.resolver),
				tui.WithEngine(s.definition.Engine()),
			)
			if err != nil {
				return err
			}

			attempts := int(cmd.Int("attempts"))
			if attempts < 1 {
				attempts = 1
			}
			var (
				opts   render.RenderOptions
				status submission.Status
			)
			for range attempts {
				record, err := renderer.Collect(ctx, s.definition.Form, opts)
				if err != nil {
					return err
				}

				var result submission.Result
				status, result = coordinator.Submit(ctx, status, record)
				switch result.State {
				case submission.StateSucceeded:
					fmt.Fprintln(cmd.Root().Writer, server.NoticeSubmitted)
					return writeJSON(cmd.Root().Writer, record)
				case submission.StateRejected:
					opts = render.RenderOptions{
						Values: &record,
						Errors: render.MapOutcome(validation.Rejected(result.Errors)),
					}
				default:
					return cli.Exit(result.Message, 1)
				}
			}
			return cli.Exit("submission rejected", 1)
		},
	}
}

type validateReport struct {
	Accepted bool                    `json:"accepted"`
	Record   *model.SubmissionRecord `json:"record,omitempty"`
	Errors   map[string]string       `json:"errors,omitempty"`
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a JSON record against the form rules",
		ArgsUsage: "<record.json | ->",
		Flags:     sourceFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cli.Exit("validate expects exactly one record path", 2)
			}
			s, err := a.session(ctx, cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd.Args().First(), cmd.Root().Reader)
			if err != nil {
				return err
			}
			record, err := model.RecordFromJSON(s.definition.Form, data)
			if err != nil {
				return err
			}

			outcome := s.definition.Engine().Validate(record)
			report := validateReport{Accepted: outcome.Accepted()}
			if coerced, ok := outcome.Record(); ok {
				report.Record = &coerced
			} else {
				report.Errors = outcome.Errors()
			}
			if err := writeJSON(cmd.Root().Writer, report); err != nil {
				return err
			}
			if !report.Accepted {
				return cli.Exit("record rejected", 1)
			}
			return nil
		},
	}
}

func (a *app) renderCommand() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file (stdout if empty)",
		},
		&cli.BoolFlag{
			Name:  "submitting",
			Usage: "render the in-flight state",
		},
	)
	return &cli.Command{
		Name:  "render",
		Usage: "Render the form as HTML",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.session(ctx, cmd)
			if err != nil {
				return err
			}
			html, err := orchestrator.New(orchestrator.WithResolver(s.resolver)).Generate(ctx, orchestrator.Request{
				Form:          &s.definition.Form,
				RenderOptions: render.RenderOptions{Submitting: cmd.Bool("submitting")},
			})
			if err != nil {
				return err
			}
			if path := cmd.String("output"); path != "" {
				if err := os.WriteFile(path, html, 0o644); err != nil {
					return fmt.Errorf("intake: write output: %w", err)
				}
				s.logger.Info("render.written", slog.String("path", path))
				return nil
			}
			_, err = cmd.Root().Writer.Write(html)
			return err
		},
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("intake: read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("intake: read record: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
