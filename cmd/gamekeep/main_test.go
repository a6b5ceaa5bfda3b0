package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamekeep/internal/catalog"
	"gamekeep/internal/config"
)

type cliEnv struct {
	configPath string
	dataDir    string
}

func setupCLITestEnv(t *testing.T) cliEnv {
	t.Helper()
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + dataDir + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		"",
		"[resolver]",
		"initial_delay_ms = 0",
		"stagger_step_ms = 0",
		"inter_job_pause_ms = 0",
	}, "\n")
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cliEnv{configPath: configPath, dataDir: dataDir}
}

func seedCatalog(t *testing.T, env cliEnv) {
	t.Helper()
	store, err := catalog.OpenPath(filepath.Join(env.dataDir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	entries := []catalog.Entry{
		{ID: "13", Name: "Catan", YearPublished: 1995, Rank: 13},
		{ID: "325", Name: "Catan: Seafarers", YearPublished: 1997, Rank: 999},
		{ID: "266192", Name: "Wingspan", YearPublished: 2019, Rank: 30},
	}
	if _, err := store.ReplaceAll(context.Background(), entries); err != nil {
		t.Fatal(err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, error) {
	t.Helper()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing %q", output, want)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Re-running without --overwrite must refuse.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, []string{"config", "show", "--path", env.configPath}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.dataDir)
	requireContains(t, out, "Suggestion limit")
}

func TestSearchCommandPrintsRankedMatches(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := func() error {
		cfg, _, _, err := config.Load(env.configPath)
		if err != nil {
			return err
		}
		return cfg.EnsureDirectories()
	}(); err != nil {
		t.Fatal(err)
	}
	seedCatalog(t, env)

	out, err := runCLI(t, []string{"search", "catan"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "Catan")
	requireContains(t, out, "exact")
	requireContains(t, out, "startsWith")
}

func TestSearchCommandNoMatches(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, []string{"search", "zzgnarled"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No matches")
}

func TestResolveCommandResolvesBatch(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := func() error {
		cfg, _, _, err := config.Load(env.configPath)
		if err != nil {
			return err
		}
		return cfg.EnsureDirectories()
	}(); err != nil {
		t.Fatal(err)
	}
	seedCatalog(t, env)

	out, err := runCLI(t, []string{"resolve", "Catan", "Wingspan", "Unknown Game XYZ"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "matched")
	requireContains(t, out, "no_match")
	requireContains(t, out, "Wingspan")
}

func TestCatalogInfoReportsCount(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := func() error {
		cfg, _, _, err := config.Load(env.configPath)
		if err != nil {
			return err
		}
		return cfg.EnsureDirectories()
	}(); err != nil {
		t.Fatal(err)
	}
	seedCatalog(t, env)

	out, err := runCLI(t, []string{"catalog", "info"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog info: %v", err)
	}
	requireContains(t, out, "Entries")
	requireContains(t, out, "3")
}
