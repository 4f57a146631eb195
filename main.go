package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/km-arc/go-container/framework/adapter"
	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
)

// ── Example services ─────────────────────────────────────────────────────────

// Greeter is built by GreeterFactory from the "greeting.text" service.
type Greeter struct {
	Text string
}

// GreeterFactory is referenced by class name from config/container.yaml:
//
//	factories:
//	  greeter: example.GreeterFactory
type GreeterFactory struct{}

func (GreeterFactory) Invoke(l adapter.Locator, _ string, _ map[string]any) (any, error) {
	raw, err := l.GetService("greeting.text")
	if err != nil {
		return nil, err
	}
	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("greeting.text must be a string, got %T", raw)
	}
	return &Greeter{Text: text}, nil
}

// Create is the array form: [example.GreeterFactory, create].
func (GreeterFactory) Create(l adapter.Locator) (*Greeter, error) {
	cfg, err := l.GetService("config")
	if err != nil {
		return nil, err
	}
	c, ok := cfg.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("config must be a *config.Config, got %T", cfg)
	}
	return &Greeter{Text: "Welcome to " + c.App.Name}, nil
}

// trimGreeting decorates every built greeter.
func trimGreeting(_ adapter.Locator, _ string, service any) (any, error) {
	g, ok := service.(*Greeter)
	if !ok {
		return nil, fmt.Errorf("greeter must be a *Greeter, got %T", service)
	}
	g.Text = strings.TrimSpace(g.Text)
	return g, nil
}

func main() {
	classes := adapter.NewClassRegistry()
	classes.Register("example.GreeterFactory", func() any { return GreeterFactory{} })

	application, err := app.New(classes) // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, ok := application.Adapter().(adapter.ExtendAware); ok {
		if err := application.Extend("greeter", trimGreeting); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
