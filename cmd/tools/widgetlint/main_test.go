package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunListsSegments(t *testing.T) {
	in := strings.NewReader(`Plans: {"type":"container","widgets":[{"type":"text","content":"hi"}]}`)
	var out, errOut bytes.Buffer

	if code := run(nil, in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "widget  container (2 nodes)") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunFailsOnInvalidWidget(t *testing.T) {
	in := strings.NewReader(`{"type":"alert","variant":"purple","message":"x"}`)
	var out, errOut bytes.Buffer

	if code := run(nil, in, &out, &errOut); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "INVALID") {
		t.Fatalf("expected INVALID line, got:\n%s", out.String())
	}
}

func TestRunRender(t *testing.T) {
	in := strings.NewReader(`{"type":"rating","value":3}`)
	var out, errOut bytes.Buffer

	if code := run([]string{"-render", "-theme", "dark"}, in, &out, &errOut); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "theme-dark") {
		t.Fatalf("expected dark themed html, got:\n%s", out.String())
	}
}
