package ribose

import (
	"github.com/ribose-rt/ribose/internal/ribose/model"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
	"github.com/ribose-rt/ribose/internal/ribose/runtime"
)

// Transductor drives a single host target against transducers loaded from
// one model file, per spec.md §4.4's public contract: push input, signal,
// start a transducer, run until it pauses or stops, and recycle buffers
// back to the allocator.
type Transductor interface {
	// Push pushes an input frame, clipped to limit bytes (0 meaning
	// unlimited).
	Push(data []byte, limit int)
	// Signal arms sig as the prologue token consumed by the next Run;
	// the input stack must be empty.
	Signal(sig Ordinal) error
	// Start loads the named transducer and pushes a fresh frame.
	Start(name string) error
	// Run executes the main loop until the transducer stack pauses,
	// stops entirely, or hits an unrecovered domain error.
	Run() error
	// Stop clears every stack and the active match mode.
	Stop()
	// Recycle hands a reusable byte buffer back to the input allocator.
	Recycle(buf []byte)
	// Close releases the underlying model file mapping.
	Close() error
}

type transductorImpl struct {
	model *model.Model
	inner *runtime.Transductor
}

// NewTransductor opens the model at modelPath, binds it to tgt, and
// returns a ready-to-drive Transductor.
func NewTransductor(config *TransductorConfig, modelPath string, tgt Target) (Transductor, error) {
	if config == nil {
		config = DefaultTransductorConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m, err := model.Open(modelPath, tgt.ClassName())
	if err != nil {
		return nil, err
	}

	tx, err := runtime.New(m, tgt)
	if err != nil {
		m.Close()
		return nil, err
	}
	if !config.OutputEnabled {
		tx.SetOutput(discardWriter{})
	}

	return &transductorImpl{model: m, inner: tx}, nil
}

func (t *transductorImpl) Push(data []byte, limit int) { t.inner.Push(data, limit) }
func (t *transductorImpl) Signal(sig Ordinal) error     { return t.inner.Signal(sig) }
func (t *transductorImpl) Start(name string) error      { return t.inner.Start(name) }
func (t *transductorImpl) Run() error                   { return t.inner.Run() }
func (t *transductorImpl) Stop()                        { t.inner.Stop() }
func (t *transductorImpl) Recycle(buf []byte)           { t.inner.Recycle(buf) }

func (t *transductorImpl) Close() error {
	if err := t.model.Close(); err != nil {
		return rterr.Wrap(rterr.KindModel, err, "ribose: close model")
	}
	return nil
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
