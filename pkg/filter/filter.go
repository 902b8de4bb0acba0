// Package filter describes which dataset records a copy run selects.
package filter

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// Filter is the selection criteria of a copy run. It is treated as
// immutable once validated.
//
// Empty slices and a zero MinSize mean "no constraint" on that axis.
type Filter struct {
	// Tags must all be present in the record's tag string (substring
	// match).
	Tags []string
	// ExcludedTags must all be absent from the record's tag string.
	ExcludedTags []string
	// Ratings restricts records to these rating values.
	Ratings []string
	// Extensions restricts records to these file extensions.
	Extensions []string
	// MinSize requires both width and height to be at least this value.
	MinSize int
	// MD5Prefixes requires the record's md5 to start with any of them.
	MD5Prefixes []string
}

// New creates a Filter from raw CLI values. Blank entries are dropped and
// values are trimmed.
func New(
	tags, excludedTags, ratings, extensions []string,
	minSize int,
	md5Prefixes []string,
) Filter {
	return Filter{
		Tags:         clean(tags),
		ExcludedTags: clean(excludedTags),
		Ratings:      clean(ratings),
		Extensions:   normExtensions(extensions),
		MinSize:      max(minSize, 0),
		MD5Prefixes:  clean(md5Prefixes),
	}
}

// Validate checks that the filter selects on at least one required tag.
func (f Filter) Validate() error {
	if len(f.Tags) > 0 {
		return nil
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EmptyTagsError,
		Msg:  "At least one tag is required, use <em>--tags</em>",
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("empty tags filter")),
	}
}

func clean(ss []string) []string {
	var res []string
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

// normExtensions accepts both "png" and ".png".
func normExtensions(ss []string) []string {
	res := clean(ss)
	for i := range res {
		res[i] = strings.TrimPrefix(res[i], ".")
	}
	return clean(res)
}
