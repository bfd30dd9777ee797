package compare

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/frog"
)

// Status classifies a finding.
type Status int

const (
	// StatusEqual means both sides agree.
	StatusEqual Status = iota
	// StatusMismatch means both sides hold a value and they disagree.
	StatusMismatch
	// StatusMissingInA means the key exists only in the second tree.
	StatusMissingInA
	// StatusMissingInB means the key exists only in the first tree.
	StatusMissingInB
	// StatusMissingInBoth means a required key exists in neither tree.
	StatusMissingInBoth
)

func (s Status) String() string {
	switch s {
	case StatusEqual:
		return "equal"
	case StatusMismatch:
		return "mismatch"
	case StatusMissingInA:
		return "missing in a"
	case StatusMissingInB:
		return "missing in b"
	case StatusMissingInBoth:
		return "missing in both"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Finding is one node of the comparison tree. Inner nodes carry children
// and the status of their key; leaves carry the rendered values.
type Finding struct {
	Path     []string
	Status   Status
	A, B     string
	Children []*Finding
}

// Name is the last path element.
func (f *Finding) Name() string {
	if len(f.Path) == 0 {
		return ""
	}
	return f.Path[len(f.Path)-1]
}

// Key joins the path with "/".
func (f *Finding) Key() string { return strings.Join(f.Path, "/") }

// Passed reports whether f and its whole subtree agree.
func (f *Finding) Passed() bool {
	if f.Status != StatusEqual {
		return false
	}
	for _, c := range f.Children {
		if !c.Passed() {
			return false
		}
	}

	return true
}

// Walk visits f and its subtree depth-first, children in order.
func (f *Finding) Walk(fn func(*Finding)) {
	fn(f)
	for _, c := range f.Children {
		c.Walk(fn)
	}
}

func (f *Finding) child(name string) *Finding {
	c := &Finding{Path: append(append([]string(nil), f.Path...), name)}
	f.Children = append(f.Children, c)
	return c
}

// Result holds the finding tree of one comparison.
type Result struct {
	Root *Finding
}

// Passed reports whether every finding agrees.
func (r *Result) Passed() bool { return r.Root.Passed() }

// Failures returns the findings whose own status is not equal (value
// mismatches and missing keys), in tree order.
func (r *Result) Failures() []*Finding {
	var out []*Finding
	r.Root.Walk(func(f *Finding) {
		if f.Status != StatusEqual {
			out = append(out, f)
		}
	})

	return out
}

// Summary writes one line per failure and a closing count.
func (r *Result) Summary(w io.Writer) error {
	fails := r.Failures()
	for _, f := range fails {
		var err error
		if f.Status == StatusMismatch {
			_, err = fmt.Fprintf(w, "%s: %s (a=%s, b=%s)\n", f.Key(), f.Status, f.A, f.B)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", f.Key(), f.Status)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d failure(s)\n", r.Root.Key(), len(fails))

	return err
}

// Combine gathers results under one root named name. Every gathered
// finding has name prepended to its path.
func Combine(name string, rs ...*Result) *Result {
	root := &Finding{Path: []string{name}}
	for _, r := range rs {
		r.Root.Walk(func(f *Finding) {
			f.Path = append([]string{name}, f.Path...)
		})
		root.Children = append(root.Children, r.Root)
	}

	return &Result{Root: root}
}

// Reports compares two reports under tol.
//
// Implementation:
//   - Stage 1: union the objective keys; a key on one side only is a
//     missing finding and is not descended into.
//   - Stage 2: per objective compare the optimum, then every reaction
//     (flux, variability_min, variability_max, deletion), then every gene
//     deletion, with the same missing-key rule at each level.
//
// Keys are visited in sorted order, so the tree is deterministic.
func Reports(a, b frog.ReportData, tol Tolerance) *Result {
	root := &Finding{Path: []string{"report"}}
	for _, oid := range union(a, b) {
		node := root.child(oid)
		ra, okA := a[oid]
		rb, okB := b[oid]
		if !presence(node, okA, okB) {
			continue
		}
		leaf(node.child("optimum"), ra.Optimum, rb.Optimum, tol)

		rxns := node.child("reactions")
		for _, rid := range union(ra.Reactions, rb.Reactions) {
			n := rxns.child(rid)
			xa, okA := ra.Reactions[rid]
			xb, okB := rb.Reactions[rid]
			if !presence(n, okA, okB) {
				continue
			}
			leaf(n.child("flux"), xa.Flux, xb.Flux, tol)
			leaf(n.child("variability_min"), xa.VariabilityMin, xb.VariabilityMin, tol)
			leaf(n.child("variability_max"), xa.VariabilityMax, xb.VariabilityMax, tol)
			leaf(n.child("deletion"), xa.Deletion, xb.Deletion, tol)
		}

		genes := node.child("gene_deletions")
		for _, gid := range union(ra.GeneDeletions, rb.GeneDeletions) {
			n := genes.child(gid)
			va, okA := ra.GeneDeletions[gid]
			vb, okB := rb.GeneDeletions[gid]
			if !presence(n, okA, okB) {
				continue
			}
			leaf(n, va, vb, tol)
		}
	}

	return &Result{Root: root}
}

// RequiredMetadataKeys must be present in both records.
var RequiredMetadataKeys = []string{frog.KeyModelFilename, frog.KeyModelMD5}

// ExtendedMetadataKeys must be equal when present in both records. It
// includes every required key.
var ExtendedMetadataKeys = []string{frog.KeyModelFilename, frog.KeyModelMD5, frog.KeyModelSHA256}

// Metadata compares two metadata records: a required key absent from
// either side is a missing finding; an extended key present in both must
// hold the same string. Other keys (software, environment, solver) are
// expected to differ between tools and are not compared.
func Metadata(a, b frog.Metadata) *Result {
	root := &Finding{Path: []string{"metadata"}}
	required := make(map[string]bool, len(RequiredMetadataKeys))
	for _, k := range RequiredMetadataKeys {
		required[k] = true
	}

	for _, k := range ExtendedMetadataKeys {
		va, okA := a[k]
		vb, okB := b[k]
		if !okA || !okB {
			if required[k] {
				presence(root.child(k), okA, okB)
			}
			continue
		}
		n := root.child(k)
		n.A, n.B = va, vb
		if va != vb {
			n.Status = StatusMismatch
		}
	}

	return &Result{Root: root}
}

// presence sets the missing status of f and reports whether both sides
// hold the key.
func presence(f *Finding, okA, okB bool) bool {
	switch {
	case okA && okB:
		return true
	case okA:
		f.Status = StatusMissingInB
	case okB:
		f.Status = StatusMissingInA
	default:
		f.Status = StatusMissingInBoth
	}

	return false
}

func leaf(f *Finding, x, y fba.Value, tol Tolerance) {
	f.A, f.B = x.String(), y.String()
	if !InTol(x, y, tol) {
		f.Status = StatusMismatch
	}
}

func union[V any](a, b map[string]V) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys
}
