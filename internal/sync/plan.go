package sync

import (
	"sort"
	"strings"
)

// Plan computes the ordered action list that makes the replica tree (dst)
// match the source tree (src). The order is safe to apply sequentially:
// creates run parent-before-child, deletes run child-before-parent, and a
// kind mismatch deletes the replica side immediately before recreating it.
func Plan(src, dst map[string]Entry) []Action {
	srcPaths := make([]string, 0, len(src))
	for p := range src {
		srcPaths = append(srcPaths, p)
	}
	sort.Strings(srcPaths)

	// Replica paths consumed by a recursive mismatch delete; they must not
	// be deleted again individually.
	consumed := make(map[string]bool)

	actions := make([]Action, 0, len(src))

	for _, p := range srcPaths {
		se := src[p]
		de, inDst := dst[p]

		if !inDst {
			actions = append(actions, Action{Op: Create, Entry: se})
			continue
		}

		if se.Kind == de.Kind {
			if se.Kind == File && (se.Size != de.Size || !se.ModTime.Equal(de.ModTime)) {
				actions = append(actions, Action{Op: Update, Entry: se})
			} else {
				actions = append(actions, Action{Op: Skip, Entry: se})
			}
			continue
		}

		// Kind changed under the same path: remove the replica side, then
		// recreate from source. A replica directory goes recursively and
		// swallows its subtree from the delete set below.
		recursive := de.Kind == Dir
		if recursive {
			prefix := p + "/"
			for q := range dst {
				if strings.HasPrefix(q, prefix) {
					consumed[q] = true
				}
			}
		}
		actions = append(actions,
			Action{Op: Delete, Entry: de, Recursive: recursive},
			Action{Op: Create, Entry: se},
		)
	}

	// Everything left on the replica side is extraneous. Excluded paths were
	// filtered out of src during the walk, so a newly excluded source path
	// lands here too and is deleted from the replica.
	var extraneous []string
	for q := range dst {
		if _, inSrc := src[q]; inSrc || consumed[q] {
			continue
		}
		extraneous = append(extraneous, q)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(extraneous)))

	for _, q := range extraneous {
		actions = append(actions, Action{Op: Delete, Entry: dst[q]})
	}

	return actions
}
