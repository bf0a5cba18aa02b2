package backend

import (
	"context"
	"testing"

	"github.com/hikmagitz/hkmcash-sub000/internal/config"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

func TestBuildMemory(t *testing.T) {
	cfg := &config.Config{RemoteBackend: "memory"}
	res, err := Build(context.Background(), cfg, applog.New(applog.DefaultConfig()))
	if err != nil {
		t.Fatal(err)
	}
	if res.Store == nil || res.Profiles == nil || res.Prober == nil {
		t.Fatalf("incomplete result: %+v", res)
	}
	if err := res.Prober.Probe(context.Background()); err != nil {
		t.Fatalf("memory probe: %v", err)
	}
}

func TestBuildUnknown(t *testing.T) {
	cfg := &config.Config{RemoteBackend: "dynamo"}
	if _, err := Build(context.Background(), cfg, applog.New(applog.DefaultConfig())); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
