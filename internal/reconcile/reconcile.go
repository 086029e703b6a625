// Package reconcile merges and diffs token sequences by exact string equality.
package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how two sequences are combined
type Mode string

const (
	ModeMerge         Mode = "merge"
	ModeMergeDedup    Mode = "merge-dedup"
	ModeDiffLeftOnly  Mode = "diff-left-only"
	ModeDiffRightOnly Mode = "diff-right-only"
	ModeDiffSymmetric Mode = "diff-symmetric"
)

// ErrUnknownMode is returned for a mode outside the supported set
var ErrUnknownMode = errors.New("unknown reconciliation mode")

// DiffModes is the ordered list of difference modes, used by option pickers
var DiffModes = []Mode{ModeDiffLeftOnly, ModeDiffRightOnly, ModeDiffSymmetric}

var modeAliases = map[string]Mode{
	"merge":           ModeMerge,
	"concat":          ModeMerge,
	"merge-dedup":     ModeMergeDedup,
	"dedup":           ModeMergeDedup,
	"union":           ModeMergeDedup,
	"diff-left-only":  ModeDiffLeftOnly,
	"left":            ModeDiffLeftOnly,
	"left-only":       ModeDiffLeftOnly,
	"diff-right-only": ModeDiffRightOnly,
	"right":           ModeDiffRightOnly,
	"right-only":      ModeDiffRightOnly,
	"diff-symmetric":  ModeDiffSymmetric,
	"symmetric":       ModeDiffSymmetric,
	"both":            ModeDiffSymmetric,
}

// ParseMode resolves a mode name or one of its short aliases
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Label returns a short human description of the mode
func (m Mode) Label() string {
	switch m {
	case ModeMerge:
		return "merge (keep duplicates)"
	case ModeMergeDedup:
		return "merge (remove duplicates)"
	case ModeDiffLeftOnly:
		return "only in first"
	case ModeDiffRightOnly:
		return "only in second"
	case ModeDiffSymmetric:
		return "in either, not both"
	default:
		return string(m)
	}
}

// Reconcile combines left and right according to mode. The inputs are never
// modified; the result is always a fresh, non-nil slice.
func Reconcile(left, right []string, mode Mode) ([]string, error) {
	switch mode {
	case ModeMerge:
		return concat(left, right), nil
	case ModeMergeDedup:
		return Dedup(concat(left, right)), nil
	case ModeDiffLeftOnly:
		return without(left, toSet(right)), nil
	case ModeDiffRightOnly:
		return without(right, toSet(left)), nil
	case ModeDiffSymmetric:
		return append(without(left, toSet(right)), without(right, toSet(left))...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}

// Dedup keeps the first occurrence of every distinct token, in order
func Dedup(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

func concat(left, right []string) []string {
	result := make([]string, 0, len(left)+len(right))
	result = append(result, left...)
	return append(result, right...)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// without returns the tokens whose value is absent from exclude
func without(tokens []string, exclude map[string]struct{}) []string {
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := exclude[t]; !ok {
			result = append(result, t)
		}
	}
	return result
}
