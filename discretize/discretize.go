// Package discretize turns continuous or high-cardinality sample columns
// into the categorical values a node's CPT is indexed by, driven by a JSON
// recipe per variable.
package discretize

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/causaltrail-go/engine/errs"
)

// Recipe describes how one variable's raw sample column should be turned
// into categorical values. Parameter is the threshold for "threshold" and
// the bucket count for "bracketMedians"; it is unused by the other methods.
type Recipe struct {
	Method    string   `json:"method"`
	Parameter *float64 `json:"parameter,omitempty"`
}

// Config maps variable name to its discretization recipe, the shape decoded
// from the discretisation JSON file.
type Config map[string]Recipe

const (
	MethodThreshold      = "threshold"
	MethodBracketMedians = "bracketMedians"
	MethodCeil           = "ceil"
	MethodFloor          = "floor"
	MethodRound          = "round"
	MethodZScore         = "z-score"
	MethodNone           = "none"
)

// Apply discretizes one column of raw sample values into category labels,
// according to recipe. For the numeric methods, naLabel is returned for a raw
// value that fails to parse as a number (including an explicit "NA" token);
// "none" returns the raw values unchanged.
func Apply(recipe Recipe, raw []string, naLabel string) ([]string, error) {
	switch recipe.Method {
	case MethodNone:
		return append([]string(nil), raw...), nil
	case MethodCeil, MethodFloor, MethodRound:
		return applyRounding(recipe.Method, raw, naLabel)
	case MethodThreshold:
		if recipe.Parameter == nil {
			return nil, fmt.Errorf("%w: threshold recipe missing parameter", errs.ErrParse)
		}
		return applyThreshold(*recipe.Parameter, raw, naLabel)
	case MethodBracketMedians:
		if recipe.Parameter == nil {
			return nil, fmt.Errorf("%w: bracketMedians recipe missing parameter", errs.ErrParse)
		}
		return applyBracketMedians(int(*recipe.Parameter), raw, naLabel)
	case MethodZScore:
		return applyZScore(raw, naLabel)
	default:
		return nil, fmt.Errorf("%w: unknown discretization method %q", errs.ErrParse, recipe.Method)
	}
}

func parseValues(raw []string, naLabel string) ([]float64, []bool) {
	values := make([]float64, len(raw))
	isNA := make([]bool, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || s == naLabel {
			isNA[i] = true
			continue
		}
		values[i] = v
	}
	return values, isNA
}

func applyRounding(method string, raw []string, naLabel string) ([]string, error) {
	values, isNA := parseValues(raw, naLabel)
	out := make([]string, len(raw))
	for i, v := range values {
		if isNA[i] {
			out[i] = naLabel
			continue
		}
		var bucket float64
		switch method {
		case MethodCeil:
			bucket = math.Ceil(v)
		case MethodFloor:
			bucket = math.Floor(v)
		case MethodRound:
			bucket = math.Round(v)
		}
		out[i] = strconv.FormatFloat(bucket, 'f', -1, 64)
	}
	return out, nil
}

// applyThreshold maps each value to "0" if it is below the threshold, "1"
// otherwise.
func applyThreshold(threshold float64, raw []string, naLabel string) ([]string, error) {
	values, isNA := parseValues(raw, naLabel)
	out := make([]string, len(raw))
	for i, v := range values {
		if isNA[i] {
			out[i] = naLabel
			continue
		}
		if v < threshold {
			out[i] = "0"
		} else {
			out[i] = "1"
		}
	}
	return out, nil
}

// applyBracketMedians partitions the non-NA values into `buckets` equal-width
// brackets (spanning [min, max]) and labels each value with its bracket's
// median rank, i.e. the bracket index.
func applyBracketMedians(buckets int, raw []string, naLabel string) ([]string, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: bracketMedians bucket count must be positive", errs.ErrParse)
	}
	values, isNA := parseValues(raw, naLabel)

	min, max := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		if isNA[i] {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	width := (max - min) / float64(buckets)
	out := make([]string, len(raw))
	for i, v := range values {
		if isNA[i] {
			out[i] = naLabel
			continue
		}
		if width == 0 {
			out[i] = "0"
			continue
		}
		bucket := int((v - min) / width)
		if bucket >= buckets {
			bucket = buckets - 1
		}
		out[i] = strconv.Itoa(bucket)
	}
	return out, nil
}

// applyZScore standardizes values to (x-mean)/stddev, then labels each value
// with its rank among the sorted distinct standardized scores, giving stable,
// small-cardinality categories.
func applyZScore(raw []string, naLabel string) ([]string, error) {
	values, isNA := parseValues(raw, naLabel)

	var sum float64
	n := 0
	for i, v := range values {
		if isNA[i] {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		out := make([]string, len(raw))
		for i := range out {
			out[i] = naLabel
		}
		return out, nil
	}
	mean := sum / float64(n)

	var variance float64
	for i, v := range values {
		if isNA[i] {
			continue
		}
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	scores := make([]float64, len(values))
	for i, v := range values {
		if isNA[i] {
			continue
		}
		if stddev == 0 {
			scores[i] = 0
			continue
		}
		scores[i] = (v - mean) / stddev
	}

	distinct := make([]float64, 0, n)
	seen := make(map[float64]bool)
	for i, s := range scores {
		if isNA[i] || seen[s] {
			continue
		}
		seen[s] = true
		distinct = append(distinct, s)
	}
	sort.Float64s(distinct)
	rank := make(map[float64]int, len(distinct))
	for i, s := range distinct {
		rank[s] = i
	}

	out := make([]string, len(raw))
	for i := range raw {
		if isNA[i] {
			out[i] = naLabel
			continue
		}
		out[i] = strconv.Itoa(rank[scores[i]])
	}
	return out, nil
}
