package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/ehrlich-b/tvdump/internal/cargo"
	"github.com/ehrlich-b/tvdump/internal/stamp"
)

type fakeCargo struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeCargo) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

const cargoDoc = `{"packages":[{"name":"a","version":"1.0","dependencies":[{"name":"x"},{"name":"y"}],"targets":[{"kind":["lib"]}]}]}`

func newCargoExporter(t *testing.T, fc *fakeCargo) (*CargoExporter, string) {
	t.Helper()
	dir := t.TempDir()

	workspace := filepath.Join(dir, "ws")
	if err := os.Mkdir(workspace, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(workspace, "Cargo.lock"), []byte("version = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := stamp.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &CargoExporter{
		Source:  &cargo.Client{Dir: workspace, Runner: fc},
		Store:   store,
		OutPath: filepath.Join(dir, "cargo.parquet"),
		Out:     io.Discard,
	}, workspace
}

func TestCargoSnapshotFidelity(t *testing.T) {
	fc := &fakeCargo{out: []byte(cargoDoc)}
	exp, _ := newCargoExporter(t, fc)

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != StatusExported || res.Rows != 1 {
		t.Fatalf("status = %v rows = %d", res.Status, res.Rows)
	}

	rows, err := parquet.ReadFile[cargo.Row](exp.OutPath)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	want := cargo.Row{Name: "a", Version: "1.0", Deps: 2, Kind: "lib"}
	if len(rows) != 1 || rows[0] != want {
		t.Errorf("snapshot = %+v, want [%+v]", rows, want)
	}
}

func TestCargoGating(t *testing.T) {
	fc := &fakeCargo{out: []byte(cargoDoc)}
	exp, workspace := newCargoExporter(t, fc)

	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if res.Status != StatusUnchanged {
		t.Errorf("status = %v, want unchanged", res.Status)
	}
	if fc.calls != 1 {
		t.Errorf("cargo metadata ran %d times, want 1 (gated run must not fetch)", fc.calls)
	}

	// Lockfile edit re-opens the gate and the snapshot is fully replaced.
	if err := os.WriteFile(filepath.Join(workspace, "Cargo.lock"), []byte("version = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res, err = exp.Run(context.Background())
	if err != nil {
		t.Fatalf("third Run failed: %v", err)
	}
	if res.Status != StatusExported {
		t.Errorf("status after lock edit = %v, want exported", res.Status)
	}
}

func TestCargoDeletedOutputForcesRerun(t *testing.T) {
	fc := &fakeCargo{out: []byte(cargoDoc)}
	exp, _ := newCargoExporter(t, fc)

	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := os.Remove(exp.OutPath); err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run after delete failed: %v", err)
	}
	if res.Status != StatusExported {
		t.Errorf("status = %v, want exported with unchanged fingerprint but missing output", res.Status)
	}
}

func TestCargoNoLockfile(t *testing.T) {
	fc := &fakeCargo{out: []byte(cargoDoc)}
	exp, workspace := newCargoExporter(t, fc)
	if err := os.Remove(filepath.Join(workspace, "Cargo.lock")); err != nil {
		t.Fatal(err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != StatusNoSource {
		t.Errorf("status = %v, want no source", res.Status)
	}
	if fc.calls != 0 {
		t.Errorf("cargo metadata ran despite missing lockfile")
	}
	if _, err := os.Stat(exp.OutPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("snapshot written despite missing lockfile")
	}
}

func TestCargoFetchFailureBlocksStamp(t *testing.T) {
	fc := &fakeCargo{err: errors.New("exit status 101")}
	exp, _ := newCargoExporter(t, fc)

	if _, err := exp.Run(context.Background()); err == nil {
		t.Fatal("expected fetch failure to fail the run")
	}
	if _, err := exp.Store.Load("cargo"); !errors.Is(err, stamp.ErrNoStamp) {
		t.Errorf("stamp committed despite fetch failure: %v", err)
	}
	if _, err := os.Stat(exp.OutPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("partial output written despite fetch failure")
	}
}

func TestCargoRemoteMirror(t *testing.T) {
	fc := &fakeCargo{out: []byte(cargoDoc)}
	exp, _ := newCargoExporter(t, fc)
	up := &fakeUploader{}
	exp.Remote = up

	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !slices.Equal(up.keys, []string{"cargo.parquet"}) {
		t.Errorf("mirrored keys = %v", up.keys)
	}
}
