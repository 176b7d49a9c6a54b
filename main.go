// Command shengloong migrates a LoongArch64 Linux sysroot from one glibc
// symbol-version tag to another, in place: every dynamically-linked ELF
// under the given root directories gets its .dynstr, .gnu.version_d,
// .gnu.version_r, and .dynsym rewritten, and the dynamic linker itself
// gets its embedded version string and compiled-in hash constants
// patched to match.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/xen0n/shengloong/internal/catalog"
	"github.com/xen0n/shengloong/internal/config"
	"github.com/xen0n/shengloong/internal/migrate"
	"github.com/xen0n/shengloong/internal/report"
	"github.com/xen0n/shengloong/internal/walk"
	"github.com/xen0n/shengloong/internal/xerrors"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("shengloong", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: shengloong [options] <root dirs>\n\n")
		flags.PrintDefaults()
	}

	var (
		verbose         bool
		dryRun          bool
		fromVer         string
		toVer           string
		checkSyscallABI bool
		checkObjABI     bool
	)
	flags.BoolVarP(&verbose, "verbose", "v", false, "produce more (debugging) output")
	flags.BoolVarP(&dryRun, "pretend", "p", false, "don't actually patch the files")
	flags.StringVarP(&fromVer, "from-ver", "f", config.DefaultFromVer, "migrate from this glibc symbol version")
	flags.StringVarP(&toVer, "to-ver", "t", config.DefaultToVer, "migrate to this glibc symbol version")
	flags.BoolVarP(&checkSyscallABI, "check-syscall-abi", "a", false, "scan for usage of syscalls removed from the kernel, instead of migrating")
	flags.BoolVar(&checkObjABI, "check-objabi", false, "scan for files built against an obsolete object file ABI, instead of migrating")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return xerrors.ExitOK
		}
		return xerrors.ExitUsage
	}

	roots := flags.Args()
	if len(roots) == 0 {
		flags.Usage()
		fmt.Fprintln(os.Stderr, "at least one directory argument is required")
		return xerrors.ExitUsage
	}

	config.EnvOverrides(&verbose, &dryRun)

	cfg, err := config.New(fromVer, toVer, verbose, dryRun, checkSyscallABI, checkObjABI)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return xerrors.ExitCode(err)
	}

	cat := catalog.NewFromEnv()
	summary := report.New(os.Stdout, cat)
	log := migrate.NewLogger(os.Stdout, cfg.Verbose)
	drv := migrate.NewDriver(cfg, summary, log)

	for _, root := range roots {
		if err := walk.Walk(root, drv.ProcessFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return xerrors.ExitCode(err)
		}
	}

	if cfg.CheckSyscallABI {
		summary.PrintSyscallABIFinalReport()
	}
	if cfg.CheckObjABI {
		summary.PrintObjABIFinalReport()
	}

	return xerrors.ExitOK
}
