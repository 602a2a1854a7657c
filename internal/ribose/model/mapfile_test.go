package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndReadMapFileRoundTrip(t *testing.T) {
	b := NewBuilder("test")
	b.AddRecord(sampleRecord("greet"))
	b.Signals.Intern("eos-user") // a user signal, above FirstUserSignal
	b.Fields.Intern("name")

	path := filepath.Join(t.TempDir(), "model.bin.map")
	digests := map[string]string{"greet": "deadbeef"}
	if err := WriteMapFile(path, b, digests); err != nil {
		t.Fatalf("WriteMapFile: %v", err)
	}

	mf, err := ReadMapFile(path)
	if err != nil {
		t.Fatalf("ReadMapFile: %v", err)
	}
	if mf.Version != CurrentVersion || mf.Target != "test" {
		t.Fatalf("mf = %+v, want version %q target \"test\"", mf, CurrentVersion)
	}
	greetOrd, ok := mf.Transducers["greet"]
	if !ok {
		t.Fatalf("ReadMapFile did not record transducer \"greet\"")
	}
	wantOrd, _ := b.Transducers.Lookup("greet")
	if greetOrd != wantOrd {
		t.Fatalf("Transducers[greet] = %d, want %d", greetOrd, wantOrd)
	}
	if digest, ok := mf.Digests["greet"]; !ok || digest != "deadbeef" {
		t.Fatalf("Digests[greet] = (%q,%v), want (\"deadbeef\",true)", digest, ok)
	}
	nameOrd, ok := mf.Fields["name"]
	if !ok {
		t.Fatalf("ReadMapFile did not record field \"name\"")
	}
	wantFieldOrd, _ := b.Fields.Lookup("name")
	if nameOrd != wantFieldOrd {
		t.Fatalf("Fields[name] = %d, want %d", nameOrd, wantFieldOrd)
	}
	// Built-in effectors must be emitted (never skipped as anonymous).
	if _, ok := mf.Effectors["paste"]; !ok {
		t.Fatalf("ReadMapFile did not record built-in effector \"paste\"")
	}
}

func TestWriteMapFileSkipsSignalsBelowFirstUserSignal(t *testing.T) {
	b := NewBuilder("test")
	b.AddRecord(sampleRecord("greet"))

	path := filepath.Join(t.TempDir(), "model.bin.map")
	if err := WriteMapFile(path, b, nil); err != nil {
		t.Fatalf("WriteMapFile: %v", err)
	}
	mf, err := ReadMapFile(path)
	if err != nil {
		t.Fatalf("ReadMapFile: %v", err)
	}
	if _, ok := mf.Signals["nul"]; ok {
		t.Fatalf("ReadMapFile recorded the built-in signal \"nul\" below FirstUserSignal")
	}
}

func TestDeleteModelRemovesBothFiles(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.bin")
	mapPath := modelPath + ".map"
	if err := os.WriteFile(modelPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile(model): %v", err)
	}
	if err := os.WriteFile(mapPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile(map): %v", err)
	}
	if err := DeleteModel(modelPath); err != nil {
		t.Fatalf("DeleteModel: %v", err)
	}
	if _, err := os.Stat(modelPath); !os.IsNotExist(err) {
		t.Fatalf("model file still exists after DeleteModel")
	}
	if _, err := os.Stat(mapPath); !os.IsNotExist(err) {
		t.Fatalf("map file still exists after DeleteModel")
	}
}

func TestDeleteModelToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "nonexistent.bin")
	if err := DeleteModel(modelPath); err != nil {
		t.Fatalf("DeleteModel on missing files: %v", err)
	}
}
