package dataset_test

import (
	"strings"
	"testing"

	"github.com/dscurate/dscurate/pkg/dataset"
	"github.com/dscurate/dscurate/pkg/errcode"
	"github.com/dscurate/dscurate/pkg/filter"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		msg      string
		mode     string
		category string
		kind     dataset.Kind
		code     gn.ErrorCode
	}{
		{"danbooru", "danbooru", "", dataset.Danbooru, 0},
		{"danbooru ignores category", " Danbooru ", "x", dataset.Danbooru, 0},
		{"gallery-dl", "gallery-dl", "gelbooru", dataset.GalleryDL, 0},
		{"gallery-dl without category", "gallery-dl", " ", dataset.Unknown,
			errcode.MissingCategoryError},
		{"unknown", "e621", "", dataset.Unknown, errcode.UnknownModeError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			conv, err := dataset.New(v.mode, v.category)
			if v.code != 0 {
				require.Error(t, err)
				gnErr, ok := err.(*gn.Error)
				require.True(t, ok)
				assert.Equal(t, v.code, gnErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.kind, conv.Kind())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "danbooru", dataset.Danbooru.String())
	assert.Equal(t, "gallery-dl", dataset.GalleryDL.String())
	assert.Equal(t, "unknown", dataset.Unknown.String())
	assert.Equal(t, []string{"danbooru", "gallery-dl"}, dataset.Modes())
}

func TestResolve(t *testing.T) {
	danbooru, err := dataset.New("danbooru", "")
	require.NoError(t, err)
	subdir, file := danbooru.Resolve(dataset.Record{
		ID: 42, Identifier: "abcdef0123456789", Extension: "jpg",
	})
	assert.Equal(t, "ab", subdir)
	assert.Equal(t, "abcdef0123456789.jpg", file)

	subdir, file = danbooru.Resolve(dataset.Record{
		ID: 1, Identifier: "a", Extension: "png",
	})
	assert.Equal(t, "a", subdir)
	assert.Equal(t, "a.png", file)

	gdl, err := dataset.New("gallery-dl", "myfeed")
	require.NoError(t, err)
	subdir, file = gdl.Resolve(dataset.Record{
		ID: 42, Identifier: "img001", Extension: "png",
	})
	assert.Equal(t, "", subdir)
	assert.Equal(t, "myfeed_42_img001.png", file)
}

func TestQueryTags(t *testing.T) {
	conv, err := dataset.New("danbooru", "")
	require.NoError(t, err)

	f := filter.New(
		[]string{"cat", "long_hair"}, []string{"dog"}, nil, nil, 0, nil,
	)
	q := conv.Query(f)

	assert.True(t, strings.HasPrefix(q.SQL,
		"SELECT id, md5, file_ext, tag_string FROM posts"))
	assert.Equal(t, 2, strings.Count(q.SQL, "tag_string LIKE ?"))
	assert.Equal(t, 1, strings.Count(q.SQL, "tag_string NOT LIKE ?"))
	assert.Contains(t, q.SQL,
		`(tag_string LIKE ? ESCAPE '\' AND tag_string LIKE ? ESCAPE '\' AND `+
			`tag_string NOT LIKE ? ESCAPE '\')`)
	assert.Equal(t, []any{"%cat%", `%long\_hair%`, "%dog%"}, q.Args)
	assert.NotContains(t, q.SQL, "cat")
}

func TestQueryAlwaysTrue(t *testing.T) {
	conv, err := dataset.New("gallery-dl", "gelbooru")
	require.NoError(t, err)

	q := conv.Query(filter.New([]string{"cat"}, nil, nil, nil, 0, nil))
	assert.True(t, strings.HasPrefix(q.SQL,
		"SELECT id, filename, extension, tags FROM images"))
	assert.Equal(t, 4, strings.Count(q.SQL, "(TRUE)"))
	assert.NotContains(t, q.SQL, "()")
	assert.Equal(t, []any{"%cat%"}, q.Args)
}

func TestQueryFilters(t *testing.T) {
	conv, err := dataset.New("gallery-dl", "gelbooru")
	require.NoError(t, err)

	f := filter.New(
		[]string{"cat"},
		nil,
		[]string{"s", "g"},
		[]string{"png"},
		512,
		[]string{"ab", "c%"},
	)
	q := conv.Query(f)

	assert.NotContains(t, q.SQL, "TRUE")
	assert.Contains(t, q.SQL, "(extension IN (?))")
	assert.Contains(t, q.SQL, "(rating IN (?, ?))")
	assert.Contains(t, q.SQL, "(width >= ? AND height >= ?)")
	assert.Contains(t, q.SQL,
		`(md5 LIKE ? ESCAPE '\' OR md5 LIKE ? ESCAPE '\')`)
	assert.Equal(t,
		[]any{"%cat%", "png", "s", "g", 512, 512, "ab%", `c\%%`},
		q.Args)
}

func TestCountQuery(t *testing.T) {
	conv, err := dataset.New("danbooru", "")
	require.NoError(t, err)

	f := filter.New([]string{"cat"}, nil, []string{"s"}, nil, 0, nil)
	q := conv.CountQuery(f)
	assert.True(t, strings.HasPrefix(q.SQL, "SELECT COUNT(*) FROM posts"))
	assert.Equal(t, conv.Query(f).Args, q.Args)
}
