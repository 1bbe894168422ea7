package cache

import (
	"slices"
	"strings"
)

// Keyer builds cache keys.
type Keyer interface {
	// AssemblyKey returns the key for an assembly of the reads whose
	// content hash is inputHash.
	AssemblyKey(inputHash string, opts AssemblyKeyOpts) string
}

// AssemblyKeyOpts are the options that change an assembly result.
type AssemblyKeyOpts struct {
	K         int      `json:"k"`
	LineWidth int      `json:"line_width"`
	Formats   []string `json:"formats"`
}

// DefaultKeyer produces keys of the form "assembly:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AssemblyKey hashes the input hash together with opts. Format order and
// case do not affect the key.
func (DefaultKeyer) AssemblyKey(inputHash string, opts AssemblyKeyOpts) string {
	formats := make([]string, len(opts.Formats))
	for i, f := range opts.Formats {
		formats[i] = strings.ToLower(f)
	}
	slices.Sort(formats)
	formats = slices.Compact(formats)
	opts.Formats = formats
	return hashKey("assembly", inputHash, opts)
}

// ScopedKeyer prepends a fixed prefix to every key of an inner Keyer.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a ScopedKeyer around inner, or around the
// default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

// AssemblyKey returns the inner key with the prefix in front.
func (k ScopedKeyer) AssemblyKey(inputHash string, opts AssemblyKeyOpts) string {
	return k.prefix + k.inner.AssemblyKey(inputHash, opts)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = ScopedKeyer{}
)
