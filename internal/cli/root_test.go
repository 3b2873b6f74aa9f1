package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestRootCmdStructure(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}

	if rootCmd.Use != "provision" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "provision")
	}

	if rootCmd.Short == "" {
		t.Error("rootCmd.Short is empty")
	}

	if !strings.Contains(rootCmd.Long, "provisioning profiles") {
		t.Error("rootCmd.Long does not describe the tool")
	}

	// Every lifecycle subcommand is registered.
	want := map[string]bool{
		"list":     false,
		"create":   false,
		"repair":   false,
		"delete":   false,
		"download": false,
		"version":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("rootCmd is missing the %q subcommand", name)
		}
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("config flag not found")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("verbose flag not found")
	}
}

func TestRootCmdHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() with --help failed: %v", err)
	}
	if !strings.Contains(buf.String(), "provision") {
		t.Error("help output does not mention the command name")
	}
}

func TestRootCmdUnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"frobnicate"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() with an unknown command should fail")
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version == "" {
		t.Error("version is empty")
	}
	if info.GoVersion == "" {
		t.Error("go version is empty")
	}
	if info.GOOS == "" || info.GOARCH == "" {
		t.Error("platform fields are empty")
	}
}

func TestRedactError(t *testing.T) {
	if RedactError(nil) != "" {
		t.Error("nil error should redact to an empty string")
	}

	msg := RedactError(fmt.Errorf("portal refused: Authorization: Bearer abc.def.ghi"))
	if strings.Contains(msg, "abc.def.ghi") {
		t.Errorf("token leaked through redaction: %q", msg)
	}
	if !strings.Contains(msg, "[REDACTED]") {
		t.Errorf("expected redaction marker in %q", msg)
	}

	msg = RedactError(fmt.Errorf("failed to read /home/alice/provision.yaml"))
	if strings.Contains(msg, "alice") {
		t.Errorf("username leaked through redaction: %q", msg)
	}
}

func TestDryRunServiceUsesSeededPortal(t *testing.T) {
	dryRun = true
	defer func() { dryRun = false }()

	service, err := newService(newLogger())
	if err != nil {
		t.Fatalf("newService() with --dry-run failed: %v", err)
	}

	profiles, err := service.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() failed: %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("fresh dry-run account should carry no profiles, got %d", len(profiles))
	}

	certs, err := service.AvailableCertificates(context.Background())
	if err != nil {
		t.Fatalf("AvailableCertificates() failed: %v", err)
	}
	if len(certs) == 0 {
		t.Error("dry-run account should carry seeded certificates")
	}
}
