package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestQueryPersistsToImage(t *testing.T) {
	img := filepath.Join(t.TempDir(), "dio.img")
	base := []string{"-i", "slowdio", "--image", img, "--log-level", "error"}

	out := run(t, append([]string{"query"}, append(base, ":DIO1:DIR OUT", "*IDN?")...)...)
	if !strings.Contains(out, "SDI,SLOWDIO,0,1.0") {
		t.Fatalf("blank image not provisioned:\n%s", out)
	}

	out = run(t, append([]string{"query"}, append(base, ":DIO1:DIR?", ":DIO9:DIR?")...)...)
	if !strings.Contains(out, "OUTPUT") || !strings.Contains(out, "ERROR: invalid command") {
		t.Fatalf("second boot:\n%s", out)
	}

	out = run(t, append([]string{"dump"}, base...)...)
	for _, want := range []string{"SLOWDIO", "OUTPUT", "invalid-command"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestProvisionOverridesIDN(t *testing.T) {
	img := filepath.Join(t.TempDir(), "pg.img")
	out := run(t, "provision", "-i", "pulsegen", "--image", img, "--log-level", "error", "--idn", "SDI,PULSEGEN,99,1.0")
	if !strings.Contains(out, "SDI,PULSEGEN,99,1.0") {
		t.Fatalf("provision output:\n%s", out)
	}
	out = run(t, "query", "-i", "pulsegen", "--image", img, "--log-level", "error", "*IDN?")
	if !strings.Contains(out, "SDI,PULSEGEN,99,1.0") {
		t.Fatalf("idn after provision:\n%s", out)
	}
}
