package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dxerr"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "dnanexus_conf.json", `{"alice":"tok-a","bob":null,"carol":""}`)
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if reg.Source() != path {
		t.Fatalf("Source = %q, want %q", reg.Source(), path)
	}
	if ok, _ := reg.Validate("alice", false); !ok {
		t.Fatal("alice should validate")
	}
	_, err = reg.Validate("bob", true)
	if !dxerr.Is(err, dxerr.KindMissingToken) {
		t.Fatalf("bob error = %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the registry file: %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "registry.yaml", "alice: tok-a\nbob:\n")
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
	if ok, _ := reg.Validate("bob", false); ok {
		t.Fatal("bob has no token and should not validate")
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadFile(writeFile(t, "bad.json", `{"alice":`)); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := LoadFile(writeFile(t, "num.json", `{"alice":42}`)); err == nil {
		t.Fatal("expected type error for non-string token")
	}
}

func TestLoadFileRejectsDuplicateUser(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"dup.json": `{"alice":"tok-a","user-alice":""}`,
		"dup.yaml": "user-alice: \"\"\nalice: tok-a\n",
	} {
		reg, err := LoadFile(writeFile(t, name, body))
		if err == nil {
			t.Fatalf("LoadFile(%s) = %v, want duplicate user error", name, reg.Usernames())
		}
		if !strings.Contains(err.Error(), "user-alice") {
			t.Fatalf("LoadFile(%s) error should name the colliding key: %v", name, err)
		}
	}
}
