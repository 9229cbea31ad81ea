// Package diff compares two JSON-like documents structurally.
//
// Lists are compared as multisets: the same elements in a different order
// are equal. Elements that exist on only one side are paired up when they
// are similar enough, so editing one field of one list entry is reported as
// a single change at that field instead of a removal plus an addition.
package diff

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Similarity is the minimum structural similarity for two unmatched list
// containers to be compared field by field.
const Similarity = 0.5

// Entry is one difference. Old is nil for additions, New for removals.
type Entry struct {
	Path string
	Old  any
	New  any
}

// Result groups the differences by kind, each sorted by path
type Result struct {
	Added   []Entry
	Removed []Entry
	Changed []Entry
}

// Compute returns the differences that turn original into edited.
// Inputs are the decoded JSON values (maps, slices, strings, numbers,
// booleans and nil); neither is modified.
func Compute(original, edited any) *Result {
	r := &Result{}
	r.walk("root", original, edited)
	sortEntries(r.Added)
	sortEntries(r.Removed)
	sortEntries(r.Changed)
	return r
}

// Empty reports whether the documents are equal
func (r *Result) Empty() bool {
	return r.Len() == 0
}

// Len returns the total number of differences
func (r *Result) Len() int {
	return len(r.Added) + len(r.Removed) + len(r.Changed)
}

// Summary returns a one-line description of the result
func (r *Result) Summary() string {
	if r.Empty() {
		return "no differences"
	}
	return fmt.Sprintf("%d changed, %d added, %d removed", len(r.Changed), len(r.Added), len(r.Removed))
}

func (r *Result) walk(path string, a, b any) {
	switch av := a.(type) {
	case map[string]any:
		if bv, ok := asMap(b); ok {
			r.walkMap(path, av, bv)
			return
		}
	case []any:
		if bv, ok := b.([]any); ok {
			r.walkList(path, av, bv)
			return
		}
	default:
		if m, ok := asMap(a); ok {
			r.walk(path, m, b)
			return
		}
	}

	if canonical(a) != canonical(b) {
		r.Changed = append(r.Changed, Entry{Path: path, Old: a, New: b})
	}
}

func (r *Result) walkMap(path string, a, b map[string]any) {
	for _, k := range unionKeys(a, b) {
		av, inA := a[k]
		bv, inB := b[k]
		child := path + keyStep(k)
		switch {
		case inA && inB:
			r.walk(child, av, bv)
		case inA:
			r.Removed = append(r.Removed, Entry{Path: child, Old: av})
		default:
			r.Added = append(r.Added, Entry{Path: child, New: bv})
		}
	}
}

func (r *Result) walkList(path string, a, b []any) {
	// Exact matches first, regardless of position
	pending := make(map[string][]int)
	for i, v := range a {
		key := canonical(v)
		pending[key] = append(pending[key], i)
	}

	matchedA := make([]bool, len(a))
	var restB []int
	for j, v := range b {
		key := canonical(v)
		if idx := pending[key]; len(idx) > 0 {
			matchedA[idx[0]] = true
			pending[key] = idx[1:]
			continue
		}
		restB = append(restB, j)
	}

	var restA []int
	for i, ok := range matchedA {
		if !ok {
			restA = append(restA, i)
		}
	}

	pairs, restA, restB := pairContainers(a, b, restA, restB)
	for _, p := range pairs {
		r.walk(path+indexStep(p.i), a[p.i], b[p.j])
	}

	// Scalars left at the same position are taken as edited in place
	freeB := make(map[int]bool, len(restB))
	for _, j := range restB {
		freeB[j] = true
	}
	for _, i := range restA {
		if freeB[i] && !isContainer(a[i]) && !isContainer(b[i]) {
			r.Changed = append(r.Changed, Entry{Path: path + indexStep(i), Old: a[i], New: b[i]})
			delete(freeB, i)
			continue
		}
		r.Removed = append(r.Removed, Entry{Path: path + indexStep(i), Old: a[i]})
	}
	for _, j := range restB {
		if freeB[j] {
			r.Added = append(r.Added, Entry{Path: path + indexStep(j), New: b[j]})
		}
	}
}

type pair struct {
	i, j  int
	score float64
}

// pairContainers greedily pairs the most similar unmatched containers and
// returns the indexes left over on each side.
func pairContainers(a, b []any, restA, restB []int) ([]pair, []int, []int) {
	var candidates []pair
	for _, i := range restA {
		if !isContainer(a[i]) {
			continue
		}
		for _, j := range restB {
			if s := similarity(a[i], b[j]); s >= Similarity {
				candidates = append(candidates, pair{i: i, j: j, score: s})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, restA, restB
	}

	sort.SliceStable(candidates, func(x, y int) bool {
		if candidates[x].score != candidates[y].score {
			return candidates[x].score > candidates[y].score
		}
		if candidates[x].i != candidates[y].i {
			return candidates[x].i < candidates[y].i
		}
		return candidates[x].j < candidates[y].j
	})

	usedA := map[int]bool{}
	usedB := map[int]bool{}
	var pairs []pair
	for _, c := range candidates {
		if usedA[c.i] || usedB[c.j] {
			continue
		}
		usedA[c.i], usedB[c.j] = true, true
		pairs = append(pairs, c)
	}
	sort.Slice(pairs, func(x, y int) bool { return pairs[x].i < pairs[y].i })

	return pairs, without(restA, usedA), without(restB, usedB)
}

// similarity scores two values between 0 (unrelated) and 1 (equal)
func similarity(a, b any) float64 {
	am, aIsMap := asMap(a)
	bm, bIsMap := asMap(b)
	if aIsMap && bIsMap {
		keys := unionKeys(am, bm)
		if len(keys) == 0 {
			return 1
		}
		var score float64
		for _, k := range keys {
			av, inA := am[k]
			bv, inB := bm[k]
			if !inA || !inB {
				continue
			}
			switch {
			case canonical(av) == canonical(bv):
				score++
			case isContainer(av) && isContainer(bv):
				score += similarity(av, bv)
			}
		}
		return score / float64(len(keys))
	}

	al, aIsList := a.([]any)
	bl, bIsList := b.([]any)
	if aIsList && bIsList {
		if len(al)+len(bl) == 0 {
			return 1
		}
		counts := map[string]int{}
		for _, v := range al {
			counts[canonical(v)]++
		}
		matches := 0
		for _, v := range bl {
			key := canonical(v)
			if counts[key] > 0 {
				counts[key]--
				matches++
			}
		}
		return 2 * float64(matches) / float64(len(al)+len(bl))
	}

	if canonical(a) == canonical(b) {
		return 1
	}
	return 0
}

// canonical returns an order-insensitive encoding of v: map keys and list
// elements are sorted and numbers are normalized.
func canonical(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	if m, ok := asMap(v); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeCanonical(sb, m[k])
		}
		sb.WriteByte('}')
		return
	}

	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case []any:
		elems := make([]string, len(t))
		for i, e := range t {
			elems[i] = canonical(e)
		}
		sort.Strings(elems)
		sb.WriteByte('[')
		sb.WriteString(strings.Join(elems, ","))
		sb.WriteByte(']')
	case json.Number:
		sb.WriteString(canonicalNumber(t.String()))
	case float64:
		sb.WriteString(canonicalNumber(strconv.FormatFloat(t, 'g', -1, 64)))
	case float32:
		sb.WriteString(canonicalNumber(strconv.FormatFloat(float64(t), 'g', -1, 32)))
	case int:
		sb.WriteString(strconv.Itoa(t))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	default:
		fmt.Fprintf(sb, "%#v", v)
	}
}

func canonicalNumber(s string) string {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

var mapType = reflect.TypeOf(map[string]any(nil))

// asMap accepts both plain maps and named map types such as
// forescout.Document.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().ConvertibleTo(mapType) {
		return rv.Convert(mapType).Interface().(map[string]any), true
	}
	return nil, false
}

func isContainer(v any) bool {
	if _, ok := asMap(v); ok {
		return true
	}
	_, ok := v.([]any)
	return ok
}

func unionKeys(a, b map[string]any) []string {
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

func without(idx []int, used map[int]bool) []int {
	var out []int
	for _, i := range idx {
		if !used[i] {
			out = append(out, i)
		}
	}
	return out
}

func keyStep(k string) string {
	if strings.ContainsRune(k, '\'') {
		return "[" + strconv.Quote(k) + "]"
	}
	return "['" + k + "']"
}

func indexStep(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
