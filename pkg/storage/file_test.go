package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/situationroom/pkg/dashboard"
)

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json"), WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, st)
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	st, err := NewFileStore(path, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(context.Background(), sampleState(t)); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{oops"), 0600); err != nil {
		t.Fatal(err)
	}
	st, err := NewFileStore(path, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt state file")
	}
}

func TestFileStoreWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "state.json")
	st, err := NewFileStore(path, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, dashboard.Initial(time.Now())); err != nil {
		t.Fatal(err)
	}

	changes := make(chan *dashboard.State, 4)
	if err := st.Watch(ctx, func(s *dashboard.State) { changes <- s }); err != nil {
		t.Fatal(err)
	}

	// Our own saves are not reported.
	if err := st.Save(ctx, dashboard.Initial(time.Now())); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-changes:
		t.Fatalf("own save reported as change: %+v", s)
	case <-time.After(3 * watchDebounce):
	}

	// Another writer is.
	other, err := NewFileStore(path, WithLogger(discardLogger()))
	if err != nil {
		t.Fatal(err)
	}
	want := sampleState(t)
	if err := other.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-changes:
		if s == nil || len(s.Dashboards) != len(want.Dashboards) {
			t.Errorf("reloaded state = %+v", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("external change not reported")
	}
}
