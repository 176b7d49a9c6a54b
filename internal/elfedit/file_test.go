package elfedit

import (
	"os"
	"testing"
)

func TestOpenParsesSections(t *testing.T) {
	path := buildMinimalELF(t, []byte("\x00GLIBC_2.35\x00libc.so.6\x00"))

	ef, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ef.Commit()

	if ef.Ehdr.Machine != EMLoongArch {
		t.Fatalf("e_machine = %d, want %d", ef.Ehdr.Machine, EMLoongArch)
	}

	s, ok := ef.SectionByName(".dynstr")
	if !ok {
		t.Fatal(".dynstr section not found")
	}
	d, err := ef.GetData(s)
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if string(d.Buf[1:11]) != "GLIBC_2.35" {
		t.Fatalf(".dynstr content = %q", d.Buf)
	}

	// exact-match only: looking up the prefix ".dyn" must not find ".dynstr"
	if _, ok := ef.SectionByName(".dyn"); ok {
		t.Fatal("prefix match on section name should not succeed")
	}
}

func TestReadOnlyCommitIsNoop(t *testing.T) {
	path := buildMinimalELF(t, []byte("\x00GLIBC_2.35\x00"))
	before, _ := os.ReadFile(path)

	ef, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := ef.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatal("read-only open must never change file bytes")
	}
}
