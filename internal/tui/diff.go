package tui

import (
	"strings"
)

// ChangeOp classifies one line of an output comparison
type ChangeOp int

const (
	ChangeSame    ChangeOp = iota
	ChangeAdded            // line only in the new output
	ChangeRemoved          // line only in the previous output
	ChangeGap              // unchanged lines were collapsed here
)

// Change pairs an operation with its line
type Change struct {
	Op   ChangeOp
	Text string
}

// maxTableLines bounds the LCS table; larger comparisons only diff the
// region between the common prefix and suffix.
const maxTableLines = 800

// DiffLines compares two outputs line by line using a longest common
// subsequence.
func DiffLines(before, after []string) []Change {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	changes := make([]Change, 0, len(before)+len(after))
	for _, line := range before[:prefix] {
		changes = append(changes, Change{Op: ChangeSame, Text: line})
	}

	oldCore := before[prefix : len(before)-suffix]
	newCore := after[prefix : len(after)-suffix]
	if len(oldCore)+len(newCore) <= maxTableLines {
		changes = append(changes, lcsChanges(oldCore, newCore)...)
	} else {
		for _, line := range oldCore {
			changes = append(changes, Change{Op: ChangeRemoved, Text: line})
		}
		for _, line := range newCore {
			changes = append(changes, Change{Op: ChangeAdded, Text: line})
		}
	}

	for _, line := range before[len(before)-suffix:] {
		changes = append(changes, Change{Op: ChangeSame, Text: line})
	}
	return changes
}

func lcsChanges(before, after []string) []Change {
	m, n := len(before), len(after)

	// table[i][j] is the LCS length of before[i:] and after[j:]
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			switch {
			case before[i] == after[j]:
				table[i][j] = table[i+1][j+1] + 1
			case table[i+1][j] >= table[i][j+1]:
				table[i][j] = table[i+1][j]
			default:
				table[i][j] = table[i][j+1]
			}
		}
	}

	var changes []Change
	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && before[i] == after[j]:
			changes = append(changes, Change{Op: ChangeSame, Text: before[i]})
			i++
			j++
		case j < n && (i == m || table[i][j+1] > table[i+1][j]):
			changes = append(changes, Change{Op: ChangeAdded, Text: after[j]})
			j++
		default:
			changes = append(changes, Change{Op: ChangeRemoved, Text: before[i]})
			i++
		}
	}
	return changes
}

// Collapse keeps context unchanged lines around each change and replaces
// the rest with a ChangeGap. It returns nil when nothing changed.
func Collapse(changes []Change, context int) []Change {
	if context < 0 {
		context = 2
	}

	keep := make([]bool, len(changes))
	changed := false
	for i, c := range changes {
		if c.Op == ChangeSame {
			continue
		}
		changed = true
		for k := max(0, i-context); k <= min(len(changes)-1, i+context); k++ {
			keep[k] = true
		}
	}
	if !changed {
		return nil
	}

	var out []Change
	inGap := false
	for i, c := range changes {
		if !keep[i] {
			inGap = true
			continue
		}
		if inGap {
			out = append(out, Change{Op: ChangeGap, Text: "..."})
			inGap = false
		}
		out = append(out, c)
	}
	if inGap {
		out = append(out, Change{Op: ChangeGap, Text: "..."})
	}
	return out
}

// RenderChanges renders what changed between two outputs in unified style.
// It returns "" when the outputs are identical.
func RenderChanges(before, after string, context int) string {
	changes := Collapse(DiffLines(splitLines(before), splitLines(after)), context)
	if changes == nil {
		return ""
	}

	var b strings.Builder
	for i, c := range changes {
		if i > 0 {
			b.WriteString("\n")
		}
		switch c.Op {
		case ChangeAdded:
			b.WriteString(insertStyle.Render("+ " + c.Text))
		case ChangeRemoved:
			b.WriteString(deleteStyle.Render("- " + c.Text))
		case ChangeGap:
			b.WriteString(mutedColor.Render("  " + c.Text))
		default:
			b.WriteString(mutedColor.Render("  " + c.Text))
		}
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
