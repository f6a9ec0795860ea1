package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/devflow-dev/devflow/internal/config"
	"github.com/devflow-dev/devflow/pkg/questions"
)

// loadConfig reads path, or devflow.yaml in the working directory when
// path is empty, then applies the environment overrides and validates.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from log.level and log.format.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), nil
}

// newSource returns the question source selected by questions.source.
func newSource(cfg config.QuestionsConfig) questions.Source {
	if cfg.Source != config.SourceS3 {
		return questions.Embedded()
	}
	return questions.NewS3Source(newS3Client(cfg), cfg.Bucket, cfg.Key)
}

func newS3Client(cfg config.QuestionsConfig) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  envCredentials(os.LookupEnv),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// envCredentials reads the standard AWS_* variables. Without an access key
// requests are sent unsigned, which public buckets accept.
func envCredentials(lookup func(string) (string, bool)) aws.CredentialsProvider {
	id, _ := lookup("AWS_ACCESS_KEY_ID")
	secret, _ := lookup("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token, _ := lookup("AWS_SESSION_TOKEN")
	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    token,
		Source:          "EnvironmentVariables",
	}
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(
		func(context.Context) (aws.Credentials, error) { return creds, nil },
	))
}
