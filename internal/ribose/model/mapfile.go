package model

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// MapFile is the parsed form of the companion `.map` text file (spec.md
// §6): tab-separated records naming the version, target class, and every
// ordinal map entry, plus one optional `digest` line per transducer
// (SPEC_FULL.md §7).
type MapFile struct {
	Version     string
	Target      string
	Transducers map[string]base.Ordinal
	Signals     map[string]base.Ordinal
	Effectors   map[string]base.Ordinal
	Fields      map[string]base.Ordinal
	Digests     map[string]string
}

// WriteMapFile emits the companion .map file for a Builder's state.
func WriteMapFile(path string, b *Builder, digests map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "model: create map file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "version\t%s\n", CurrentVersion)
	fmt.Fprintf(w, "target\t%s\n", b.TargetClassName)
	for ord, name := range b.Transducers.Names() {
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "transducer\t%s\t%d\n", name, ord)
		if digest, ok := digests[name]; ok {
			fmt.Fprintf(w, "digest\t%s\t%s\n", name, digest)
		}
	}
	for ord, name := range b.Signals.Names() {
		if ord < int(base.FirstUserSignal) || name == "" {
			continue
		}
		fmt.Fprintf(w, "signal\t%s\t%d\n", name, ord)
	}
	for ord, name := range b.Effectors.Names() {
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "effector\t%s\t%d\n", name, ord)
	}
	for ord, name := range b.Fields.Names() {
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "field\t%s\t%d\n", name, ord)
	}
	return w.Flush()
}

// ReadMapFile parses a companion .map file. Unrecognized record kinds are
// skipped, keeping the format forward compatible.
func ReadMapFile(path string) (*MapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "model: open map file")
	}
	defer f.Close()

	mf := &MapFile{
		Transducers: map[string]base.Ordinal{},
		Signals:     map[string]base.Ordinal{},
		Effectors:   map[string]base.Ordinal{},
		Fields:      map[string]base.Ordinal{},
		Digests:     map[string]string{},
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "version":
			if len(fields) > 1 {
				mf.Version = fields[1]
			}
		case "target":
			if len(fields) > 1 {
				mf.Target = fields[1]
			}
		case "transducer", "signal", "effector", "field":
			if len(fields) < 3 {
				continue
			}
			ord, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(err, "model: map file ordinal for %s", fields[1])
			}
			switch fields[0] {
			case "transducer":
				mf.Transducers[fields[1]] = base.Ordinal(ord)
			case "signal":
				mf.Signals[fields[1]] = base.Ordinal(ord)
			case "effector":
				mf.Effectors[fields[1]] = base.Ordinal(ord)
			case "field":
				mf.Fields[fields[1]] = base.Ordinal(ord)
			}
		case "digest":
			if len(fields) < 3 {
				continue
			}
			mf.Digests[fields[1]] = fields[2]
		default:
			// unknown record kind; skip for forward compatibility
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "model: scan map file")
	}
	return mf, nil
}

// DeleteModel removes a model file and its companion .map file, per
// spec.md §7 ("A failed compile deletes the partial model and its map
// file").
func DeleteModel(modelPath string) error {
	mapPath := modelPath + ".map"
	err1 := os.Remove(modelPath)
	err2 := os.Remove(mapPath)
	if err1 != nil && !os.IsNotExist(err1) {
		return errors.Wrap(err1, "model: delete model file")
	}
	if err2 != nil && !os.IsNotExist(err2) {
		return errors.Wrap(err2, "model: delete map file")
	}
	return nil
}
