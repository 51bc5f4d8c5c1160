package main

import (
	"fmt"

	"github.com/dixieflatline76/Realist/config"
	"github.com/dixieflatline76/Realist/pkg/enhance"
	"github.com/dixieflatline76/Realist/pkg/grade"
	"github.com/dixieflatline76/Realist/pkg/session"
	"github.com/dixieflatline76/Realist/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// backend is the session and its collaborators shared by every command.
type backend struct {
	env      config.Environment
	cfg      *config.AppConfig
	registry *prometheus.Registry
	client   *enhance.Client
	session  *session.Session
}

func newBackend(cfg *config.AppConfig) (*backend, error) {
	env, err := config.LoadEnvironment()
	if err != nil {
		return nil, err
	}

	prompts, err := enhance.DefaultPrompts()
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}
	filters, err := grade.Default()
	if err != nil {
		return nil, fmt.Errorf("loading filters: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := enhance.NewClient(
		func() string { return cfg.ResolveAPIKey(env) },
		enhance.WithEndpoint(env.Gemini.Endpoint),
		enhance.WithModel(cfg.ResolveModel(env)),
		enhance.WithTimeout(env.Gemini.Timeout),
		enhance.WithRateLimit(env.Gemini.RequestsPerMinute),
		enhance.WithRegistry(reg),
	)
	log.Printf("Enhancing with %s", client.Model())

	return &backend{
		env:      env,
		cfg:      cfg,
		registry: reg,
		client:   client,
		session:  session.New(client, prompts, filters),
	}, nil
}
