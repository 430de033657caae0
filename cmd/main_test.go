package main

import (
	"bytes"
	"flag"
	"os"
	"strings"
	"testing"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()

	if configPath != "config.env" {
		t.Errorf("expected config.env, got %s", configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()

	if configPath != "myconfig.env" {
		t.Errorf("expected myconfig.env, got %s", configPath)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	os.Clearenv()

	appHost, appPort, logLevel,
		pgHost, pgPort, pgUser, _, pgDB,
		pgMaxOpenConns, _,
		redisHost, _, _, _,
		kafkaAddr, kafkaTopic,
		mediaRoot,
		_, tokenExpSecond,
		err := parseConfig("does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appHost != "localhost" || appPort != "8080" || logLevel != "info" {
		t.Errorf("unexpected app defaults: %s %s %s", appHost, appPort, logLevel)
	}
	if pgHost != "localhost" || pgPort != 5432 || pgUser != "user" || pgDB != "recipes" {
		t.Errorf("unexpected postgres defaults: %s %d %s %s", pgHost, pgPort, pgUser, pgDB)
	}
	if pgMaxOpenConns != 16 {
		t.Errorf("unexpected max open conns: %d", pgMaxOpenConns)
	}
	if redisHost != "" {
		t.Errorf("redis should be disabled by default, got host %q", redisHost)
	}
	if kafkaAddr != "" || kafkaTopic != "recipe-events" {
		t.Errorf("unexpected kafka defaults: %q %q", kafkaAddr, kafkaTopic)
	}
	if mediaRoot != "./media" {
		t.Errorf("unexpected media root: %s", mediaRoot)
	}
	if tokenExpSecond != 2592000 {
		t.Errorf("unexpected token exp: %d", tokenExpSecond)
	}
}

func TestParseConfig_Overrides(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_PORT", "9090")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("REDIS_HOST", "redis.internal")
	os.Setenv("KAFKA_ADDR", "kafka.internal:9092")
	os.Setenv("AUTH_TOKEN_EXP_SECOND", "3600")
	defer os.Clearenv()

	_, appPort, _,
		_, pgPort, _, _, _,
		_, _,
		redisHost, _, _, _,
		kafkaAddr, _,
		_,
		_, tokenExpSecond,
		err := parseConfig("does-not-exist.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appPort != "9090" {
		t.Errorf("expected app port 9090, got %s", appPort)
	}
	if pgPort != 5433 {
		t.Errorf("expected postgres port 5433, got %d", pgPort)
	}
	if redisHost != "redis.internal" {
		t.Errorf("expected redis host override, got %q", redisHost)
	}
	if kafkaAddr != "kafka.internal:9092" {
		t.Errorf("expected kafka addr override, got %q", kafkaAddr)
	}
	if tokenExpSecond != 3600 {
		t.Errorf("expected token exp 3600, got %d", tokenExpSecond)
	}
}

func TestParseConfig_BadPort(t *testing.T) {
	os.Clearenv()
	os.Setenv("POSTGRES_PORT", "not-a-number")
	defer os.Clearenv()

	_, _, _, _, _, _, _, _, _, _, _, _, _, _, _, _, _, _, _, err := parseConfig("does-not-exist.env")
	if err == nil {
		t.Fatal("expected an error for a non-numeric port")
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2026-08-28"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout
	output := buf.String()

	for _, want := range []string{"v1.0.0", "abcd1234", "2026-08-28"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
