package domain

import (
	"fmt"
	"strings"
)

// LinkType is a predecessor link type as written in the schedule document.
type LinkType string

// Document link type codes.
const (
	LinkFinishFinish LinkType = "0"
	LinkFinishStart  LinkType = "1" // Document default when Type is absent
	LinkStartFinish  LinkType = "2"
	LinkStartStart   LinkType = "3"
)

// SequenceType is the kind of a sequence relationship between two tasks.
type SequenceType string

// Sequence relationship kinds.
const (
	SequenceStartStart   SequenceType = "START_START"
	SequenceStartFinish  SequenceType = "START_FINISH"
	SequenceFinishStart  SequenceType = "FINISH_START"
	SequenceFinishFinish SequenceType = "FINISH_FINISH"
)

// DefaultSequenceType is the kind given to sequences whose link type is not applied.
const DefaultSequenceType = SequenceFinishStart

// sequenceTypes maps both numeric codes and display names to sequence kinds.
var sequenceTypes = map[string]SequenceType{
	string(LinkFinishFinish): SequenceFinishFinish,
	string(LinkFinishStart):  SequenceFinishStart,
	string(LinkStartFinish):  SequenceStartFinish,
	string(LinkStartStart):   SequenceStartStart,
	"start to start":         SequenceStartStart,
	"start to finish":        SequenceStartFinish,
	"finish to start":        SequenceFinishStart,
	"finish to finish":       SequenceFinishFinish,
}

// SequenceType maps the link type to a sequence kind.
// An empty link type maps to FINISH_START.
func (l LinkType) SequenceType() (SequenceType, error) {
	if l == "" {
		return SequenceFinishStart, nil
	}
	st, ok := sequenceTypes[strings.ToLower(strings.TrimSpace(string(l)))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLinkType, string(l))
	}
	return st, nil
}

// IsValid returns true if the sequence type is a known value.
func (s SequenceType) IsValid() bool {
	switch s {
	case SequenceStartStart, SequenceStartFinish, SequenceFinishStart, SequenceFinishFinish:
		return true
	default:
		return false
	}
}

// UnresolvedPolicy decides what happens when a predecessor UID names no task.
type UnresolvedPolicy string

// Unresolved predecessor policies.
const (
	UnresolvedAbort UnresolvedPolicy = "abort" // Fail the import
	UnresolvedWarn  UnresolvedPolicy = "warn"  // Log a warning and skip the relationship
	UnresolvedSkip  UnresolvedPolicy = "skip"  // Skip the relationship quietly
)
