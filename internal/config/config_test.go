package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DX_API_SERVER", "DX_HTTP_TIMEOUT", "DX_LOGIN_CONF", "DX_LOGIN_HELPER", "DX_SECURITY_CONTEXT",
		"REGISTRY_SOURCE", "VAULT_ADDR", "VAULT_TOKEN", "VAULT_NAMESPACE", "REGISTRY_VAULT_MOUNT",
		"REGISTRY_VAULT_PATH", "METRICS_TEXTFILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadWithOptions_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithOptions(LoadOptions{RequireRegistry: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.APIServer != defaultAPIServer {
		t.Fatalf("APIServer = %q, want %q", cfg.APIServer, defaultAPIServer)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("HTTPTimeout = %s, want %s", cfg.HTTPTimeout, defaultHTTPTimeout)
	}
	if cfg.RegistrySource != RegistrySourceFile {
		t.Fatalf("RegistrySource = %q", cfg.RegistrySource)
	}
	if cfg.Vault.Mount != defaultVaultMount {
		t.Fatalf("Vault.Mount = %q", cfg.Vault.Mount)
	}
}

func TestLoad_RequiresLoginConf(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Fatal("expected DX_LOGIN_CONF error")
	}

	t.Setenv("DX_LOGIN_CONF", "/etc/dnanexus_conf.json")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LoginConfPath != "/etc/dnanexus_conf.json" {
		t.Fatalf("LoginConfPath = %q", cfg.LoginConfPath)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DX_API_SERVER", "https://api.example.test/")
	t.Setenv("DX_HTTP_TIMEOUT", "45s")
	t.Setenv("DX_LOGIN_CONF", "conf.json")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/dx.prom")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIServer != "https://api.example.test" {
		t.Fatalf("APIServer = %q", cfg.APIServer)
	}
	if cfg.HTTPTimeout != 45*time.Second {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.MetricsTextfile != "/var/lib/node_exporter/dx.prom" {
		t.Fatalf("MetricsTextfile = %q", cfg.MetricsTextfile)
	}
}

func TestLoad_InvalidTimeoutKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("DX_HTTP_TIMEOUT", "soon")

	cfg, err := LoadWithOptions(LoadOptions{})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
}

func TestLoad_VaultSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("REGISTRY_SOURCE", "Vault")

	if _, err := Load(); err == nil {
		t.Fatal("expected VAULT_ADDR error")
	}
	t.Setenv("VAULT_ADDR", "https://vault.example.test")
	if _, err := Load(); err == nil {
		t.Fatal("expected REGISTRY_VAULT_PATH error")
	}
	t.Setenv("REGISTRY_VAULT_PATH", "dnanexus/logins")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RegistrySource != RegistrySourceVault || cfg.Vault.Path != "dnanexus/logins" {
		t.Fatalf("unexpected vault config: %#v", cfg)
	}
}

func TestLoad_UnknownRegistrySource(t *testing.T) {
	clearEnv(t)
	t.Setenv("REGISTRY_SOURCE", "ldap")

	if _, err := LoadWithOptions(LoadOptions{}); err == nil {
		t.Fatal("expected REGISTRY_SOURCE error")
	}
}
