package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridflow/flow"
)

var deferredHCL = filepath.Join("..", "..", "flowfile", "testdata", "deferred.hcl")

func TestRunText(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run([]string{deferredHCL}, &out, &errOut); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, line := range []string{
		`flow "deferred": 4 tasks, 6 grids, 3 moments`,
		"moment 1: gbuffer, shadow",
		"moment 2: light",
		"moment 3: post",
		"grid lit: color RGBA8Unorm load=Clear store=Store last_use=3",
		"grid depth: depth_stencil Depth24PlusStencil8 load=Load store=Discard last_use=3",
		"edge light -> post on lit (RAW)",
		"edge gbuffer -> light on depth (WAW, depth/stencil)",
	} {
		if !strings.Contains(out.String(), line+"\n") {
			t.Errorf("output is missing %q:\n%s", line, out.String())
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %s", errOut.String())
	}
}

func TestRunStrict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.hcl")
	src := `
grid "a" { kind = "color" }
grid "b" { kind = "color" }
grid "d" { kind = "depth_stencil" }

task "first" {
  depth_stencil = "d"
  output "a" { grid = "a" }
}

task "second" {
  depth_stencil = "d"
  output "b" { grid = "b" }
}
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{path}, "moment 1: first, second\n"},
		{[]string{"-strict", path}, "moment 2: second\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if err := run(tt.args, &out, &bytes.Buffer{}); err != nil {
			t.Fatalf("run(%q) error = %v", tt.args, err)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("run(%q) output is missing %q:\n%s", tt.args, tt.want, out.String())
		}
	}
}

func TestRunStructured(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer
			if err := run([]string{"-format", format, deferredHCL}, &out, &bytes.Buffer{}); err != nil {
				t.Fatalf("run() error = %v", err)
			}
			var doc flow.Document
			var err error
			if format == "json" {
				err = json.Unmarshal(out.Bytes(), &doc)
			} else {
				err = yaml.Unmarshal(out.Bytes(), &doc)
			}
			if err != nil {
				t.Fatalf("decode %s: %v", format, err)
			}
			if err := doc.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if doc.Label != "deferred" || len(doc.Tasks) != 4 {
				t.Errorf("doc = %q with %d tasks", doc.Label, len(doc.Tasks))
			}
		})
	}
}

func TestRunMsgpack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.msgpack")
	if err := run([]string{"-o", path, deferredHCL}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := flow.DecodeMsgpack(r)
	if err != nil {
		t.Fatalf("DecodeMsgpack() error = %v", err)
	}
	if got := f.MaxMoment(); got != 3 {
		t.Errorf("MaxMoment() = %d, want 3", got)
	}
}

func TestRunVerbose(t *testing.T) {
	var errOut bytes.Buffer
	if err := run([]string{"-v", deferredHCL}, &bytes.Buffer{}, &errOut); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(errOut.String(), "flow: task scheduled") {
		t.Errorf("verbose log is missing scheduling records:\n%s", errOut.String())
	}
}

func TestRunErrors(t *testing.T) {
	tests := [][]string{
		nil,
		{"-format", "xml", deferredHCL},
		{filepath.Join("testdata", "missing.hcl")},
		{"-nope"},
	}
	for _, args := range tests {
		if err := run(args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%q) error = nil", args)
		}
	}
}
