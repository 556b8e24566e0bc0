// Command flowplan loads a flow file and prints the schedule the flow
// builder assigns to its tasks.
//
// Usage:
//
//	flowplan [-format text|json|yaml] [-strict] [-o flow.msgpack] [-v] file.hcl
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridflow"
	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/flowfile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("flowplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		format  = fs.String("format", "text", "output format: text, json or yaml")
		strict  = fs.Bool("strict", false, "order depth/stencil users strictly")
		output  = fs.String("o", "", "also write the flow as MessagePack to this file")
		verbose = fs.Bool("v", false, "log builder decisions to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("flowplan: expected exactly one flow file")
	}

	if *verbose {
		gridflow.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer gridflow.SetLogger(nil)
	}

	file, err := flowfile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	var opts []flow.Option
	if *strict {
		opts = append(opts, flow.WithStrictDepthStencil())
	}
	res, err := file.Build(opts...)
	if err != nil {
		return err
	}

	if *output != "" {
		data, err := res.Flow.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("flowplan: %w", err)
		}
	}

	switch *format {
	case "text":
		return writeText(stdout, res)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Flow.Document())
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(res.Flow.Document()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("flowplan: unknown format %q", *format)
	}
}

func writeText(w io.Writer, res *flowfile.Result) error {
	f := res.Flow
	var b strings.Builder

	fmt.Fprintf(&b, "flow %q: %d tasks, %d grids, %d moments\n",
		f.Label(), f.NumTasks(), len(f.GridNodes()), f.MaxMoment())

	for _, s := range f.Stages() {
		labels := make([]string, len(s.Tasks))
		for i, t := range s.Tasks {
			labels[i] = f.Task(t).Label()
		}
		fmt.Fprintf(&b, "moment %d: %s\n", s.Moment, strings.Join(labels, ", "))
	}

	for _, n := range f.GridNodes() {
		fmt.Fprintf(&b, "grid %s: %v %v load=%v store=%v last_use=%d\n",
			res.Name(n.Grid), n.Kind, n.Format, n.LoadOp(), n.StoreOp(), n.LastUse())
	}

	for _, e := range f.Edges() {
		kind := e.Hazard.String()
		if e.DepthStencil {
			kind += ", depth/stencil"
		}
		fmt.Fprintf(&b, "edge %s -> %s on %s (%s)\n",
			f.Task(e.From).Label(), f.Task(e.To).Label(), res.Name(e.Grid), kind)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
