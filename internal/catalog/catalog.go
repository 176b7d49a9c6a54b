// Package catalog is a thin localization layer for user-facing output.
// The original C tool wrapped every user-facing string in gettext's _()
// macro; this is the Go equivalent, built on golang.org/x/text/message
// instead of cgo-gettext bindings.
package catalog

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer formats localized, user-facing diagnostic and report strings.
type Printer struct {
	p *message.Printer
	w io.Writer
}

// New builds a Printer for the given BCP-47 tag (e.g. from $LANG), falling
// back to English when tag can't be parsed or has no catalog entries.
func New(tag string, w io.Writer) *Printer {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.English
	}
	return &Printer{p: message.NewPrinter(lang), w: w}
}

// NewFromEnv builds a Printer using $LC_MESSAGES or $LANG, the same
// environment variables gettext itself consults.
func NewFromEnv() *Printer {
	tag := os.Getenv("LC_MESSAGES")
	if tag == "" {
		tag = os.Getenv("LANG")
	}
	return New(tag, os.Stdout)
}

// Printf formats key (a message.Reference registered in init via
// message.SetString, or a plain Go format string when no translation
// exists) and writes it.
func (p *Printer) Printf(key message.Reference, args ...any) {
	fmt.Fprint(p.w, p.p.Sprintf(key, args...))
}

// Sprintf is the non-writing counterpart of Printf.
func (p *Printer) Sprintf(key message.Reference, args ...any) string {
	return p.p.Sprintf(key, args...)
}

func init() {
	// Register the catalog entries the report package formats through
	// this printer. There is only an "en" catalog today — the original
	// tool's gettext .po translations are not carried over here — but
	// registering through x/text/message.Set means adding a language
	// later is a catalog entry, not a call-site change.
	message.SetString(language.English,
		"%s: usage of removed syscall `%s` at .text+0x%x\n",
		"%s: usage of removed syscall `%s` at .text+0x%x\n")
	message.SetString(language.English,
		"%s: file uses obsolete object file ABI: e_flags=0x%x\n",
		"%s: file uses obsolete object file ABI: e_flags=0x%x\n")
}
