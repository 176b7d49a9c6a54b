package walk

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestWalkFiltersNonELF(t *testing.T) {
	dir := t.TempDir()

	elfBytes := append([]byte(elfMagic), make([]byte, ElfHeaderSize)...)
	writeFile(t, filepath.Join(dir, "good.so"), elfBytes)
	writeFile(t, filepath.Join(dir, "too_small"), []byte(elfMagic))
	writeFile(t, filepath.Join(dir, "text.txt"), []byte("not an elf but long enough......................................................"))

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "nested.so"), elfBytes)

	var visited []string
	if err := Walk(dir, func(path string) error {
		visited = append(visited, path)
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	sort.Strings(visited)
	want := []string{filepath.Join(dir, "good.so"), filepath.Join(sub, "nested.so")}
	sort.Strings(want)

	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestWalkStopsOnVisitError(t *testing.T) {
	dir := t.TempDir()
	elfBytes := append([]byte(elfMagic), make([]byte, ElfHeaderSize)...)
	writeFile(t, filepath.Join(dir, "a.so"), elfBytes)

	sentinel := os.ErrInvalid
	err := Walk(dir, func(path string) error { return sentinel })
	if err != sentinel {
		t.Fatalf("Walk error = %v, want %v", err, sentinel)
	}
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
