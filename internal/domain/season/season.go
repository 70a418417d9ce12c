// Package season parses and orders season labels.
//
// Labels normalize to "YYYY-YY". Adjacency is defined over the observed label
// set: a season missing from the data makes the next available one "previous".
package season

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	longPair  = regexp.MustCompile(`^(\d{4})[-_/](\d{2}|\d{4})$`)
	shortPair = regexp.MustCompile(`^(?:[a-z]+_)?(\d{2})[-_/](\d{2})$`)
	single    = regexp.MustCompile(`^(\d{4})$`)
)

// shortPivot splits two-digit start years: 50..99 are 19xx, 00..49 are 20xx.
const shortPivot = 50

// Season is a parsed, normalized season label.
type Season struct {
	Label string
	Start int
}

// Parse normalizes a raw season label or batch identifier.
func Parse(raw string) (Season, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	var start, end int
	switch {
	case longPair.MatchString(s):
		m := longPair.FindStringSubmatch(s)
		start, _ = strconv.Atoi(m[1])
		end, _ = strconv.Atoi(m[2])
		if len(m[2]) == 2 {
			end += start / 100 * 100
			if end < start {
				end += 100
			}
		}
	case shortPair.MatchString(s):
		m := shortPair.FindStringSubmatch(s)
		yy, _ := strconv.Atoi(m[1])
		start = 2000 + yy
		if yy >= shortPivot {
			start = 1900 + yy
		}
		end, _ = strconv.Atoi(m[2])
		end += start / 100 * 100
		if end < start {
			end += 100
		}
	case single.MatchString(s):
		start, _ = strconv.Atoi(s)
		end = start + 1
	default:
		return Season{}, fmt.Errorf("%w: cannot parse %q", ErrUnorderedSeason, raw)
	}
	if end != start+1 {
		return Season{}, fmt.Errorf("%w: %q does not span consecutive years", ErrUnorderedSeason, raw)
	}
	return Season{Label: fmt.Sprintf("%04d-%02d", start, end%100), Start: start}, nil
}

// Normalize returns the canonical label for raw.
func Normalize(raw string) (string, error) {
	s, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return s.Label, nil
}

// Sequence is the sorted set of observed seasons.
type Sequence struct {
	seasons []Season
	index   map[string]int
}

// NewSequence orders the unique labels chronologically.
// Labels that cannot be ordered consistently are fatal.
func NewSequence(labels []string) (*Sequence, error) {
	seen := make(map[string]struct{}, len(labels))
	byStart := make(map[int]string)
	var out []Season
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		s, err := Parse(l)
		if err != nil {
			return nil, err
		}
		if s.Label != l {
			return nil, fmt.Errorf("%w: label %q is not normalized (want %q)", ErrUnorderedSeason, l, s.Label)
		}
		if other, ok := byStart[s.Start]; ok {
			return nil, fmt.Errorf("%w: %q and %q start in the same year", ErrUnorderedSeason, other, l)
		}
		byStart[s.Start] = l
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	seq := &Sequence{seasons: out, index: make(map[string]int, len(out))}
	for i, s := range out {
		seq.index[s.Label] = i
	}
	return seq, nil
}

// Len returns the number of observed seasons.
func (q *Sequence) Len() int { return len(q.seasons) }

// Labels returns the ordered labels.
func (q *Sequence) Labels() []string {
	out := make([]string, len(q.seasons))
	for i, s := range q.seasons {
		out[i] = s.Label
	}
	return out
}

// First returns the earliest observed label, or "" when empty.
func (q *Sequence) First() string {
	if len(q.seasons) == 0 {
		return ""
	}
	return q.seasons[0].Label
}

// Last returns the latest observed label, or "" when empty.
func (q *Sequence) Last() string {
	if len(q.seasons) == 0 {
		return ""
	}
	return q.seasons[len(q.seasons)-1].Label
}

// Position returns the chronological index of label.
func (q *Sequence) Position(label string) (int, bool) {
	i, ok := q.index[label]
	return i, ok
}

// Previous returns the observed predecessor of label.
func (q *Sequence) Previous(label string) (string, bool) {
	i, ok := q.index[label]
	if !ok || i == 0 {
		return "", false
	}
	return q.seasons[i-1].Label, true
}

// Less orders two observed labels chronologically.
func (q *Sequence) Less(a, b string) bool {
	return q.index[a] < q.index[b]
}
