package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:          "8082",
		SQLiteDBPath:  "./hkmcash-test.db",
		RemoteBackend: "memory",
		ProbeTimeout:  5 * time.Second,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"unknown backend", func(c *Config) { c.RemoteBackend = "dynamo" }},
		{"sheets without spreadsheet", func(c *Config) { c.RemoteBackend = "sheets" }},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }},
		{"probe timeout too small", func(c *Config) { c.ProbeTimeout = time.Millisecond }},
		{"probe timeout too large", func(c *Config) { c.ProbeTimeout = time.Hour }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	c := Load()
	if c.Port != "8082" {
		t.Fatalf("default port = %s", c.Port)
	}
	if c.RemoteBackend != "memory" {
		t.Fatalf("default backend = %s", c.RemoteBackend)
	}
	if c.ProbeTimeout != 5*time.Second {
		t.Fatalf("default probe timeout = %v", c.ProbeTimeout)
	}
}
