// Package config holds the process-lifetime, immutable-once-set
// configuration for a shengloong run: the source/target version tags,
// their precomputed hashes, and the run-mode flags.
package config

import (
	"fmt"

	"github.com/xyproto/env/v2"

	"github.com/xen0n/shengloong/internal/bfdhash"
	"github.com/xen0n/shengloong/internal/xerrors"
)

const (
	// DefaultFromVer is the source glibc symbol-version tag.
	DefaultFromVer = "GLIBC_2.35"
	// DefaultToVer is the target glibc symbol-version tag.
	DefaultToVer = "GLIBC_2.36"
)

// Config is immutable once New returns successfully.
type Config struct {
	FromVer  string
	ToVer    string
	FromHash uint32
	ToHash   uint32

	Verbose         bool
	DryRun          bool
	CheckSyscallABI bool
	CheckObjABI     bool
}

// New validates fromVer/toVer and precomputes their hashes. It returns a
// DataError (never a panic) when the two tags have unequal length, since
// an in-place editor can never change a string's length.
func New(fromVer, toVer string, verbose, dryRun, checkSyscallABI, checkObjABI bool) (*Config, error) {
	if len(fromVer) != len(toVer) {
		return nil, xerrors.NewDataError(fmt.Sprintf(
			"from-ver %q and to-ver %q must have equal length (%d != %d)",
			fromVer, toVer, len(fromVer), len(toVer)))
	}

	// check-syscall-abi and check-objabi both imply dry-run: they never
	// mutate files, only report.
	if checkSyscallABI || checkObjABI {
		dryRun = true
	}

	return &Config{
		FromVer:         fromVer,
		ToVer:           toVer,
		FromHash:        bfdhash.Sum(fromVer),
		ToHash:          bfdhash.Sum(toVer),
		Verbose:         verbose,
		DryRun:          dryRun,
		CheckSyscallABI: checkSyscallABI,
		CheckObjABI:     checkObjABI,
	}, nil
}

// IsVerInteresting reports whether ver is a candidate for rewriting: it
// starts with "GLIBC_2." and isn't already the target tag. The second
// clause is what makes repeated runs idempotent.
func (c *Config) IsVerInteresting(ver string) bool {
	const prefix = "GLIBC_2."
	if len(ver) < len(prefix) || ver[:len(prefix)] != prefix {
		return false
	}
	return ver != c.ToVer
}

// EnvOverrides applies SHENGLOONG_* environment variables on top of
// explicitly-parsed flags, for CI pipelines that prefer env-based
// configuration over long command lines. Flags always win when both are
// given explicitly; this only fills in values the caller left at their
// flag-package zero value.
func EnvOverrides(verbose, dryRun *bool) {
	if env.Bool("SHENGLOONG_VERBOSE") {
		*verbose = true
	}
	if env.Bool("SHENGLOONG_DRY_RUN") {
		*dryRun = true
	}
}
