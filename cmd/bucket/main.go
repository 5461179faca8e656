package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/medml/medcli/internal/bucket"
	"github.com/medml/medcli/internal/logging"
	"github.com/medml/medcli/internal/output"
)

func main() {
	cmd := &cli.Command{
		Name:  "medml-bucket",
		Usage: "Prepare the S3 bucket MedML stores uploaded images in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bucket", Aliases: []string{"b"}, Usage: "bucket name (AWS_STORAGE_BUCKET_NAME)"},
			&cli.StringFlag{Name: "region", Aliases: []string{"r"}, Usage: "bucket region (AWS_S3_REGION_NAME)"},
			&cli.StringFlag{Name: "endpoint", Usage: "S3-compatible endpoint URL (AWS_S3_ENDPOINT_URL)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log S3 calls"},
		},
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create the bucket and open it for public reads",
				Action: withManager(create),
			},
			{
				Name:   "policy",
				Usage:  "Apply the public-read bucket policy",
				Action: withManager(policy),
			},
			{
				Name:   "check",
				Usage:  "Check that the bucket is reachable with the configured credentials",
				Action: withManager(check),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("bucket command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type action func(ctx context.Context, m *bucket.Manager, cfg *bucket.Config, p *output.Printer) error

// withManager loads the bucket config (environment, then flags), builds the
// S3 client and hands a Manager to fn.
func withManager(fn action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := bucket.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.IsSet("bucket") {
			cfg.Bucket = cmd.String("bucket")
		}
		if cmd.IsSet("region") {
			cfg.Region = cmd.String("region")
		}
		if cmd.IsSet("endpoint") {
			cfg.Endpoint = cmd.String("endpoint")
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		level := slog.LevelWarn
		if cmd.Bool("verbose") {
			level = slog.LevelInfo
		}
		logger := logging.New(os.Stderr, level, logging.FormatText)

		client, err := bucket.NewS3Client(ctx, cfg)
		if err != nil {
			return err
		}

		p := output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(output.ColorAuto))
		p.Header("Bucket")
		p.Field("Name", cfg.Bucket)
		p.Field("Region", cfg.Region)
		p.Field("Access key", cfg.MaskedAccessKey())
		if cfg.Endpoint != "" {
			p.Field("Endpoint", cfg.Endpoint)
		}

		return fn(ctx, bucket.NewManager(client, cfg, logger), cfg, p)
	}
}

func create(ctx context.Context, m *bucket.Manager, cfg *bucket.Config, p *output.Printer) error {
	created, err := m.Create(ctx)
	if err != nil {
		p.Error("%v", err)
		return err
	}
	if !created {
		p.Success("Bucket %s already exists and is yours", cfg.Bucket)
		return nil
	}
	p.Success("Bucket %s created and open for public reads", cfg.Bucket)
	return nil
}

func policy(ctx context.Context, m *bucket.Manager, cfg *bucket.Config, p *output.Printer) error {
	doc, err := m.ApplyPolicy(ctx)
	if err != nil {
		p.Error("%v", err)
		return err
	}
	p.Success("Bucket policy applied")
	p.Print("%s", doc)
	p.Info("Example URL: https://%s.s3.amazonaws.com/images/example.jpg", cfg.Bucket)
	return nil
}

func check(ctx context.Context, m *bucket.Manager, _ *bucket.Config, p *output.Printer) error {
	res, err := m.Check(ctx)
	if err != nil {
		p.Error("%v", err)
		return err
	}
	if res.Objects == 0 {
		p.Success("Bucket %s is reachable and empty", res.Bucket)
		return nil
	}
	p.Success("Bucket %s is reachable, first page lists %d object(s)", res.Bucket, res.Objects)
	return nil
}
