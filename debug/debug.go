// Package debug holds env-var controlled trace switches for the core
// pipeline. Flags are read once at startup.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Resolve bool
	Mutate  bool
	Scan    bool
	Diff    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("DOMSYNC_DEBUG_PARSE")
	d.Resolve = boolEnv("DOMSYNC_DEBUG_RESOLVE")
	d.Mutate = boolEnv("DOMSYNC_DEBUG_MUTATE")
	d.Scan = boolEnv("DOMSYNC_DEBUG_SCAN")
	d.Diff = boolEnv("DOMSYNC_DEBUG_DIFF")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Resolve() bool {
	return d.Resolve
}
func Mutate() bool {
	return d.Mutate
}
func Scan() bool {
	return d.Scan
}
func Diff() bool {
	return d.Diff
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
