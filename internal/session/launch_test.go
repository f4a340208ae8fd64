package session

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"--verbose", []string{"--verbose"}},
		{"--model opus --verbose", []string{"--model", "opus", "--verbose"}},
		{`--prompt "hello world"`, []string{"--prompt", "hello world"}},
		{`--prompt 'single quoted'`, []string{"--prompt", "single quoted"}},
		{`a  b	c`, []string{"a", "b", "c"}},
		{`--msg "it's fine"`, []string{"--msg", "it's fine"}},
		{`""`, []string{""}},
	}
	for _, c := range cases {
		got := SplitArgs(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitArgs(%q): expected %#v, got %#v", c.in, c.want, got)
		}
	}
}

func TestBuildResume(t *testing.T) {
	spec := BuildResume("claude", "abc-123", "/work/app", "--model opus")
	if spec.Command != "claude" {
		t.Errorf("Expected command 'claude', got %q", spec.Command)
	}
	want := []string{"-r", "abc-123", "--model", "opus"}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Errorf("Expected args %v, got %v", want, spec.Args)
	}
	if spec.WorkingDir != "/work/app" {
		t.Errorf("Expected working dir '/work/app', got %q", spec.WorkingDir)
	}
}

func TestBuildNew(t *testing.T) {
	spec := BuildNew("claude", "/work/app", "")
	if len(spec.Args) != 0 {
		t.Errorf("Expected no args, got %v", spec.Args)
	}
	if spec.WorkingDir != "/work/app" {
		t.Errorf("Expected working dir '/work/app', got %q", spec.WorkingDir)
	}
}
