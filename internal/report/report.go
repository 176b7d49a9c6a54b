// Package report accumulates the syscall-ABI and object-file-ABI findings
// from a run and prints the final banners. The original C tool models
// this as process-wide state ("set once, inspected once at shutdown");
// here it's a *Summary threaded through the walk instead of a
// package-level global, so the observable behavior is identical but the
// state isn't hidden in a singleton a test can't reset between runs.
package report

import (
	"fmt"
	"io"

	"github.com/xen0n/shengloong/internal/catalog"
)

// Summary collects cross-file findings for the final report.
type Summary struct {
	HasSyscallABIProblems bool
	HasObjABIProblems     bool

	w   io.Writer
	cat *catalog.Printer
}

// New builds a Summary that writes to w using cat for message formatting.
func New(w io.Writer, cat *catalog.Printer) *Summary {
	return &Summary{w: w, cat: cat}
}

// ReportRemovedSyscall records and prints one removed-syscall finding.
func (s *Summary) ReportRemovedSyscall(path, name string, textOffset uint64) {
	s.HasSyscallABIProblems = true
	s.cat.Printf("%s: usage of removed syscall `%s` at .text+0x%x\n", path, name, textOffset)
}

// ReportObsoleteObjABI records and prints one object-ABI finding.
func (s *Summary) ReportObsoleteObjABI(path string, eFlags uint32) {
	s.HasObjABIProblems = true
	s.cat.Printf("%s: file uses obsolete object file ABI: e_flags=0x%x\n", path, eFlags)
}

// PrintSyscallABIFinalReport prints the closing banner for a
// --check-syscall-abi run, once all files have been scanned.
func (s *Summary) PrintSyscallABIFinalReport() {
	if s.HasSyscallABIProblems {
		fmt.Fprint(s.w, syscallABIWarningBanner)
		return
	}
	fmt.Fprint(s.w, syscallABIAllClearBanner)
}

// PrintObjABIFinalReport prints the closing banner for a --check-objabi
// run.
func (s *Summary) PrintObjABIFinalReport() {
	if s.HasObjABIProblems {
		fmt.Fprint(s.w, objABIWarningBanner)
		return
	}
	fmt.Fprint(s.w, objABIAllClearBanner)
}

const syscallABIWarningBanner = "\n" +
	"        \x1b[31m╔═══════════════════════════════════════════════════════════╗\x1b[m\n" +
	"        \x1b[31m║                                                           ║\x1b[m\n" +
	"        \x1b[31m║\x1b[m              You need to \x1b[1;31mUPGRADE YOUR LIBC\x1b[0;32m*\x1b[m,              \x1b[31m║\x1b[m\n" +
	"        \x1b[31m║\x1b[m  \x1b[1;31mBEFORE\x1b[m you reboot into a kernel without these syscalls.  \x1b[31m║\x1b[m\n" +
	"        \x1b[31m║                                                           ║\x1b[m\n" +
	"        \x1b[31m╚═══════════════════════════════════════════════════════════╝\x1b[m\n" +
	"\n" +
	" \x1b[32m*\x1b[m If other non-libc programs are shown above, they should be rebuilt\n" +
	"   after the libc upgrade as well.\n" +
	"\n" +
	"   You can run this check again after you have upgraded the libc,\n" +
	"   if unsure.\n" +
	"\n"

const syscallABIAllClearBanner = "\x1b[32m\n" +
	"        ╔═════════════════════════════════════════════════════════╗\n" +
	"        ║                                                         ║\n" +
	"        ║  \x1b[1mNo deprecated syscall usage was found on your system!\x1b[0;32m  ║\n" +
	"        ║                                                         ║\n" +
	"        ╚═════════════════════════════════════════════════════════╝\n" +
	"\x1b[m\n"

const objABIWarningBanner = "\n" +
	"\x1b[31m * \x1b[mYour system has file(s) using obsolete object file ABI.\n" +
	"   This may not play well with current or future toolchain components.\n" +
	"\n" +
	"   You may have to rebuild the affected packages or simply re-install your\n" +
	"   system to fix this.\n" +
	"\n"

const objABIAllClearBanner = "\n\x1b[32m * \x1b[mNo obsolete object file ABI usage was found on your system!\n\n"
