// Command ribose is the CLI entry point for the compiler and runtime: a
// compile subcommand that turns a directory of INR automata into a model
// file, a run subcommand that drives a transductor over an input file, and
// a show subcommand that prints a model's ordinal maps and kernel-matrix
// dimensions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ribose-rt/ribose/internal/ribose/model"
	"github.com/ribose-rt/ribose/pkg/ribose"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "run":
		err = runRun(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ribose <compile|run|show> [flags]")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "ribose:", err)
	os.Exit(1)
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	target := fs.String("target", "", "host target class name the model is compiled against")
	src := fs.String("src", "", "directory of .inr automata")
	out := fs.String("out", "", "output model file path")
	fs.Parse(args)

	if *target == "" || *src == "" || *out == "" {
		return fmt.Errorf("compile: -target, -src, and -out are all required")
	}

	config := ribose.DefaultCompilerConfig().WithTargetClassName(*target)
	compiler, err := ribose.NewCompiler(config)
	if err != nil {
		return err
	}
	if err := compiler.Compile(*src, *out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "ribose: compiled %s -> %s\n", *src, *out)
	return nil
}

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	modelPath := fs.String("model", "", "model file path")
	targetName := fs.String("target", "", "host target class name the model was compiled against")
	transducerName := fs.String("transducer", "", "transducer name to start")
	inputPath := fs.String("in", "", "input file path, or - for stdin")
	outputPath := fs.String("out", "", "output file path, or - for stdout")
	fs.Parse(args)

	if *modelPath == "" || *targetName == "" || *transducerName == "" {
		return fmt.Errorf("run: -model, -target, and -transducer are required")
	}

	in, err := openInput(*inputPath)
	if err != nil {
		return err
	}
	defer in.Close()
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("run: read input: %w", err)
	}

	out, err := openOutput(*outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	tgt := &bareTarget{class: *targetName}
	tx, err := ribose.NewTransductor(ribose.DefaultTransductorConfig(), *modelPath, tgt)
	if err != nil {
		return err
	}
	defer tx.Close()

	tx.Push(data, 0)
	if err := tx.Start(*transducerName); err != nil {
		return err
	}
	if err := tx.Run(); err != nil {
		return err
	}
	return nil
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	modelPath := fs.String("model", "", "model file path")
	target := fs.String("target", "", "host target class name to bind against")
	fs.Parse(args)

	if *modelPath == "" || *target == "" {
		return fmt.Errorf("show: -model and -target are required")
	}

	m, err := model.Open(*modelPath, *target)
	if err != nil {
		return err
	}
	defer m.Close()

	fmt.Printf("model version: %s\n", m.Version)
	fmt.Printf("target class:  %s\n", m.TargetClassName)
	fmt.Printf("signals:       %d\n", m.Signals.Len())
	fmt.Printf("fields:        %d\n", m.Fields.Len())
	fmt.Printf("effectors:     %d\n", m.Effectors.Len())
	fmt.Printf("transducers:\n")
	for _, name := range m.Transducers.Names() {
		if name == "" {
			continue
		}
		rec, err := m.Transducer(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-24s states=%-6d classes=%-4d vectors=%-6d\n",
			name, rec.Kernel.NumStates, rec.Kernel.NumClasses, len(rec.Vectors.Pool))
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("run: open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("run: open output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// bareTarget is the target the run subcommand binds against: host effector
// implementations are out of scope for this module (spec.md §1), so the CLI
// can only drive transducers compiled against the built-in effector set
// alone. class must match the name the model was compiled with.
type bareTarget struct{ class string }

func (t *bareTarget) ClassName() string            { return t.class }
func (t *bareTarget) Effectors() []ribose.Effector { return nil }
