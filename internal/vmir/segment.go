// Package vmir defines the VM command set that the decompiler pipeline
// consumes: memory segments and the instruction forms produced by the
// course-style Hack/Jack VM compiler.
package vmir

import "fmt"

// Segment is a VM memory segment.
type Segment byte

const (
	LCL Segment = iota
	ARG
	THIS
	THAT
	CONST
	POINTER
	STATIC
	TEMP
)

// segmentNames maps the wire spelling (as it appears in VM source) to a Segment.
var segmentNames = map[string]Segment{
	"local":    LCL,
	"argument": ARG,
	"this":     THIS,
	"that":     THAT,
	"constant": CONST,
	"pointer":  POINTER,
	"static":   STATIC,
	"temp":     TEMP,
}

// debugSpellings maps a Segment back to the short spelling used when
// synthesizing variable names (e.g. "LCL_0").
var debugSpellings = [...]string{"LCL", "ARG", "THIS", "THAT", "CONST", "POINTER", "STATIC", "TEMP"}

// ParseSegment resolves a VM source segment name. The bool is false for an
// unrecognized name.
func ParseSegment(s string) (Segment, bool) {
	seg, ok := segmentNames[s]
	return seg, ok
}

// DebugSpelling returns the short identifier-friendly spelling used by the
// lifter when synthesizing variable names.
func (s Segment) DebugSpelling() string {
	if int(s) < len(debugSpellings) {
		return debugSpellings[s]
	}
	return fmt.Sprintf("SEG%d", byte(s))
}

func (s Segment) String() string { return s.DebugSpelling() }
