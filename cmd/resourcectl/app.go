package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/apiadapter/adapter"
	"github.com/kbukum/apiadapter/authorizer"
	"github.com/kbukum/apiadapter/config"
	"github.com/kbukum/apiadapter/httpclient"
	"github.com/kbukum/apiadapter/logger"
	"github.com/kbukum/apiadapter/observability"
	"github.com/kbukum/apiadapter/session"
)

// app is the wired stack behind every command.
type app struct {
	cfg     *config.Config
	adapter *adapter.ResourceAdapter
	session *session.Session
	client  *httpclient.Client
	out     io.Writer
	output  string

	shutdown observability.ShutdownFunc
}

func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString(flagConfig)
	envFile, _ := flags.GetString(flagEnvFile)
	output, _ := flags.GetString(flagOutput)
	if output != outputJSON && output != outputRaw {
		return nil, fmt.Errorf("unknown output format %q", output)
	}

	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg, err := config.Load(serviceName, opts...)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging, cfg.Name)
	log := logger.GetGlobalLogger()
	logger.Register("adapter", log.WithComponent("adapter"))
	logger.Register("session", log.WithComponent("session"))

	ctx := cmd.Context()
	shutdown, err := observability.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	policy, err := authorizer.NewPolicy(cfg.Auth.FailureStatuses...)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	registry := authorizer.NewDefaultRegistry(policy, authorizer.DefaultOptions{JWTLeeway: cfg.Auth.JWTLeeway})

	sess := session.New(logger.Get("session"))
	if data := sessionData(cmd); data != nil {
		sess.Authenticate(data)
	}
	sess.OnInvalidated(func(context.Context) {
		cmd.PrintErrln("session invalidated: the API rejected the credential")
	})

	client, err := httpclient.New(cfg.Transport)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	a, err := adapter.New(adapter.Config{
		Host:       cfg.APIURL,
		Namespace:  cfg.APINamespace,
		Authorizer: cfg.Authorizer,
		Headers:    cfg.Headers,
	}, registry, sess, client,
		adapter.WithLogger(logger.Get("adapter")),
		adapter.WithMetrics(metrics),
	)
	if err != nil {
		client.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	return &app{
		cfg:      cfg,
		adapter:  a,
		session:  sess,
		client:   client,
		out:      cmd.OutOrStdout(),
		output:   output,
		shutdown: shutdown,
	}, nil
}

// sessionData builds the authenticated session data from flags or the
// environment. It returns nil when no token is available.
func sessionData(cmd *cobra.Command) session.Data {
	token, _ := cmd.Flags().GetString(flagToken)
	if token == "" {
		token = os.Getenv("API_TOKEN")
	}
	if token == "" {
		return nil
	}
	email, _ := cmd.Flags().GetString(flagEmail)
	if email == "" {
		email = os.Getenv("API_EMAIL")
	}
	data := session.Data{"access_token": token, "token": token}
	if email != "" {
		data["email"] = email
	}
	return data
}

func (a *app) Close(ctx context.Context) {
	a.client.Close()
	if err := a.shutdown(ctx); err != nil {
		logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
}

// withApp wires the stack, runs fn and tears the stack down.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close(context.WithoutCancel(cmd.Context()))
		return fn(cmd.Context(), a, args)
	}
}

var errNoDocument = errors.New("no document returned")
