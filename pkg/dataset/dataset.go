// Package dataset knows the schema and on-disk layout of every supported
// imageboard dump. It is the only place that knows table and column
// names, and it has no I/O.
package dataset

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/gnames/gn"
)

// Kind enumerates supported dataset conventions.
type Kind int

const (
	Unknown Kind = iota
	// Danbooru is a hash-sharded dump: images live at
	// {md5[:2]}/{md5}.{ext}, metadata in the posts table.
	Danbooru
	// GalleryDL is a flat gallery-dl mirror: images live at
	// {category}_{id}_{filename}.{ext}, metadata in the images table.
	GalleryDL
)

var kindNames = map[Kind]string{
	Danbooru:  "danbooru",
	GalleryDL: "gallery-dl",
}

// String returns the mode name used on the command line.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Modes returns the sorted list of supported mode names.
func Modes() []string {
	res := make([]string, 0, len(kindNames))
	for _, v := range kindNames {
		res = append(res, v)
	}
	slices.Sort(res)
	return res
}

// Record is one row selected by a convention's query.
type Record struct {
	ID int64
	// Identifier is the md5 (Danbooru) or the filename (gallery-dl).
	Identifier string
	Extension  string
	// Tags is the raw space-delimited tag string, never parsed.
	Tags string
}

// Convention is a dataset layout chosen once per run.
type Convention struct {
	kind     Kind
	category string
}

// layout holds everything that differs between conventions.
type layout struct {
	table     string
	idCol     string
	identCol  string
	extCol    string
	tagCol    string
	ratingCol string
	widthCol  string
	heightCol string
	md5Col    string

	needsCategory bool
	resolve       func(c Convention, id int64, ident, ext string) (string, string)
}

var layouts = map[Kind]layout{
	Danbooru: {
		table:     "posts",
		idCol:     "id",
		identCol:  "md5",
		extCol:    "file_ext",
		tagCol:    "tag_string",
		ratingCol: "rating",
		widthCol:  "width",
		heightCol: "height",
		md5Col:    "md5",
		resolve:   resolveSharded,
	},
	GalleryDL: {
		table:         "images",
		idCol:         "id",
		identCol:      "filename",
		extCol:        "extension",
		tagCol:        "tags",
		ratingCol:     "rating",
		widthCol:      "width",
		heightCol:     "height",
		md5Col:        "md5",
		needsCategory: true,
		resolve:       resolveFlat,
	},
}

// New returns the convention for a mode name. The category is required by
// conventions with category-prefixed file names and ignored otherwise.
func New(mode, category string) (Convention, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	category = strings.TrimSpace(category)

	for k, name := range kindNames {
		if name != mode {
			continue
		}
		if layouts[k].needsCategory && category == "" {
			return Convention{}, MissingCategoryError(mode)
		}
		return Convention{kind: k, category: category}, nil
	}
	return Convention{}, UnknownModeError(mode)
}

// Kind returns the convention's kind.
func (c Convention) Kind() Kind {
	return c.kind
}

// Category returns the category used in flat file names.
func (c Convention) Category() string {
	return c.category
}

// Resolve returns the subdirectory (relative to the image root, empty for
// flat layouts) and the file name of a record's image.
func (c Convention) Resolve(r Record) (subdir, filename string) {
	return layouts[c.kind].resolve(c, r.ID, r.Identifier, r.Extension)
}

func resolveSharded(_ Convention, _ int64, ident, ext string) (string, string) {
	subdir := ident
	if len(ident) > 2 {
		subdir = ident[:2]
	}
	return subdir, ident + "." + ext
}

func resolveFlat(c Convention, id int64, ident, ext string) (string, string) {
	return "", fmt.Sprintf("%s_%d_%s.%s", c.category, id, ident, ext)
}

// UnknownModeError is returned for a mode name without a convention.
func UnknownModeError(mode string) error {
	msg := "Unknown dataset mode <em>%s</em>, supported modes: %s"
	vars := []any{mode, strings.Join(Modes(), ", ")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.UnknownModeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unknown mode %q",
			fn.Name(), mode),
	}
}

// MissingCategoryError is returned when a convention needs a category
// and none was given.
func MissingCategoryError(mode string) error {
	msg := "Category name is required for <em>%s</em> mode, use <em>--category</em>"
	vars := []any{mode}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MissingCategoryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("missing category")),
	}
}
