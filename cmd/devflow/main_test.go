package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflow-dev/devflow/internal/config"
	"github.com/devflow-dev/devflow/internal/errors"
	"github.com/devflow-dev/devflow/pkg/authform"
	"github.com/devflow-dev/devflow/pkg/form"
	"github.com/devflow-dev/devflow/pkg/form/prompt"
)

type answers map[string]string

func (a answers) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a[cfg.Message], nil
}

func (a answers) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a[cfg.Message], nil
}

type abortDriver struct{}

func (abortDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func (abortDriver) Password(context.Context, prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func newRunner(d prompt.Driver) *prompt.Runner {
	return prompt.New(prompt.WithDriver(d), prompt.WithOutput(&bytes.Buffer{}), prompt.WithAttempts(1))
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "want *errors.Error, got %T", err)
	return e.Code
}

func TestRunAuthSignInSucceeds(t *testing.T) {
	engine := authform.New(authform.SignIn, authform.MockSubmit(0, nil))
	d := answers{"Email Address": "dev@flow.io", "Password": "hunter22"}

	err := runAuth(context.Background(), authform.SignIn, engine, newRunner(d))
	require.NoError(t, err)
	assert.Equal(t, form.Idle, engine.State())
}

func TestRunAuthInvalidValues(t *testing.T) {
	called := false
	submit := func(context.Context, form.FieldSet) (form.Result, error) {
		called = true
		return form.Result{Success: true}, nil
	}
	engine := authform.New(authform.SignIn, submit)
	d := answers{"Email Address": "not-an-email", "Password": "123"}

	err := runAuth(context.Background(), authform.SignIn, engine, newRunner(d))
	require.Error(t, err)
	assert.Equal(t, errors.CodeFormInvalid, codeOf(t, err))
	assert.Contains(t, err.(*errors.Error).Detail, "email: Please enter a valid email address")
	assert.Contains(t, err.(*errors.Error).Detail, "password: Password must be at least 6 characters")
	assert.False(t, called)
}

func TestRunAuthBackendFailure(t *testing.T) {
	submit := func(context.Context, form.FieldSet) (form.Result, error) {
		return form.Result{Success: false, Error: "Invalid credentials"}, nil
	}
	engine := authform.New(authform.SignIn, submit)
	d := answers{"Email Address": "dev@flow.io", "Password": "hunter22"}

	err := runAuth(context.Background(), authform.SignIn, engine, newRunner(d))
	require.Error(t, err)
	assert.Equal(t, errors.CodeSubmitFailed, codeOf(t, err))
	assert.Equal(t, "Invalid credentials", err.(*errors.Error).Detail)
}

func TestRunAuthAborted(t *testing.T) {
	engine := authform.New(authform.SignUp, authform.MockSubmit(0, nil))

	err := runAuth(context.Background(), authform.SignUp, engine, newRunner(abortDriver{}))
	require.Error(t, err)
	assert.Equal(t, errors.CodePromptAborted, codeOf(t, err))
}

func TestAuthCmdRejectsUnknownForm(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"auth", "reset-password"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownForm, codeOf(t, err))
}

func TestVersionShort(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs([]string{"version", "--short"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}

func TestLoadConfigAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("search:\n  debounce: 250ms\n"), 0o644))
	t.Setenv(config.EnvAddr, "127.0.0.1:4000")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)

	sc := serverConfig(cfg)
	assert.Equal(t, "127.0.0.1:4000", sc.Addr)
	assert.Equal(t, 250*time.Millisecond, sc.Search.Delay)
	assert.Equal(t, "/", sc.Search.TargetRoute)
	assert.Equal(t, "query", sc.Search.Key)
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  source: ftp\n"), 0o644))

	_, err := loadConfig(path)
	require.Error(t, err)
}

func TestNewLoggerFormats(t *testing.T) {
	cfg := config.New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestEnvCredentials(t *testing.T) {
	none := func(string) (string, bool) { return "", false }
	_, anonymous := envCredentials(none).(aws.AnonymousCredentials)
	assert.True(t, anonymous)

	env := map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKID",
		"AWS_SECRET_ACCESS_KEY": "SECRET",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	creds, err := envCredentials(lookup).Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
	assert.Equal(t, "SECRET", creds.SecretAccessKey)
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[::]:3000", "localhost:3000"},
		{"0.0.0.0:8080", "localhost:8080"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
	}
	for _, tt := range tests {
		addr, err := net.ResolveTCPAddr("tcp", tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, displayAddr(addr), tt.in)
	}
}
