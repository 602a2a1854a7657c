package ribose

import (
	"github.com/ribose-rt/ribose/internal/ribose/compile"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// Compiler turns a directory of INR automata into a compiled model file.
type Compiler interface {
	// Compile reads every .inr file in sourceDir and writes a model file
	// to modelPath (plus a companion modelPath+".map" file). It returns a
	// non-nil *Error of kind CompilationError describing every automaton
	// that failed to compile.
	Compile(sourceDir, modelPath string) error
}

type compilerImpl struct {
	inner *compile.Compiler
}

// NewCompiler returns a Compiler built from config, which must have a
// non-empty TargetClassName.
func NewCompiler(config *CompilerConfig) (Compiler, error) {
	if config == nil {
		config = DefaultCompilerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := compile.NewCompiler(config.TargetClassName)
	c.Thresholds = compile.Thresholds{
		MsumMin:     config.MsumThreshold,
		MscanMin:    config.MscanThreshold,
		MproductMin: config.MproductMinRun,
	}
	return &compilerImpl{inner: c}, nil
}

func (c *compilerImpl) Compile(sourceDir, modelPath string) error {
	if err := c.inner.CompileDir(sourceDir, modelPath); err != nil {
		return rterr.Wrap(rterr.KindCompilation, err, "ribose: compile")
	}
	return nil
}
