package compile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/model"
)

// startState is the INR convention for a transducer's entry state (state 1
// is the accept state a final transition lands in).
const startState = 0

// Errors accumulates every failure found while compiling a directory of
// INR files, implementing spec.md §4.2's "Failure semantics": a compile
// reports every automaton's errors, not just the first.
type Errors []error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Compiler drives a directory of `.inr` files through BuildAutomaton and
// Assembler into one model file and its companion .map file.
type Compiler struct {
	TargetClassName string
	Thresholds      Thresholds
}

// NewCompiler returns a Compiler for the named host target class, using
// the default trap thresholds.
func NewCompiler(targetClassName string) *Compiler {
	return &Compiler{TargetClassName: targetClassName, Thresholds: DefaultThresholds()}
}

// CompileDir compiles every `.inr` file in dir into a single model file at
// modelPath (plus modelPath+".map"). On any error it deletes whatever
// partial output it wrote (spec.md §7: "a failed compile deletes the
// partial model and its map file") and returns every accumulated error.
func (c *Compiler) CompileDir(dir, modelPath string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "compile: read dir")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".inr") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	b := model.NewBuilder(c.TargetClassName)
	params := NewParamTable()

	var errs Errors
	var autos []*RawAutomaton
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".inr")
		ra, err := c.parseOne(name, path, b, params)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		autos = append(autos, ra)
	}
	if len(errs) > 0 {
		return errs
	}

	signalLimit := b.Signals.Len()
	numFields := b.Fields.Len()
	asm := &Assembler{Thresholds: c.Thresholds}

	digests := map[string]string{}
	for _, ra := range autos {
		rec, _, err := asm.Assemble(ra, c.TargetClassName, signalLimit, startState, numFields)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "assemble %s", ra.Name))
			continue
		}
		b.AddRecord(rec)
		digests[ra.Name] = model.Digest(rec)
	}
	if len(errs) > 0 {
		return errs
	}

	params.Apply(b)

	if err := b.Write(modelPath); err != nil {
		_ = model.DeleteModel(modelPath)
		return Errors{err}
	}
	if err := model.WriteMapFile(modelPath+".map", b, digests); err != nil {
		_ = model.DeleteModel(modelPath)
		return Errors{err}
	}
	return nil
}

func (c *Compiler) parseOne(name, path string, b *model.Builder, params *ParamTable) (*RawAutomaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "compile: open %s", path)
	}
	defer f.Close()

	header, transitions, err := ReadInr(f)
	if err != nil {
		return nil, errors.Wrapf(err, "compile: parse %s", path)
	}
	return BuildAutomaton(name, header, transitions, b, params)
}
