// Package ribose provides a byte-oriented recursive transduction engine: a
// compiler from three-tape INR automata to a compact kernel-matrix model
// file, and a single-threaded cooperative runtime that drives effector
// side effects against a host target.
//
// # Compiling a model
//
//	compiler, err := ribose.NewCompiler(ribose.DefaultCompilerConfig().WithTargetClassName("MyTarget"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := compiler.Compile("./automata", "./build/model.rbm"); err != nil {
//		log.Fatal(err)
//	}
//
// # Driving a transducer
//
//	tx, err := ribose.NewTransductor(ribose.DefaultTransductorConfig(), "./build/model.rbm", myTarget)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tx.Close()
//
//	tx.Push([]byte("abc"), 0)
//	if err := tx.Start("Main"); err != nil {
//		log.Fatal(err)
//	}
//	if err := tx.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Implementing a host target
//
// A host target implements ribose.Target: a class name that must match the
// name a model was compiled against, and a slice of ribose.Effector (or
// ribose.Parameterized, for effectors that accept compile-time parameters)
// assigned ordinals above the eighteen built-in effectors.
//
// # Architecture
//
//   - pkg/ribose/: public API (this package)
//   - internal/ribose/: private implementation (compiler, model format,
//     runtime), not importable from outside this module
//
// Implementation details in internal/ can be refactored without breaking
// the public API.
package ribose
