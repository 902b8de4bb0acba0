package ioimport

import (
	"strings"

	"github.com/gnames/gnlib"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// meta is the subset of a gallery-dl metadata file stored in the index.
type meta struct {
	ID        *int64  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Filename  string  `json:"filename"`
	Extension string  `json:"extension"`
	MD5       string  `json:"md5"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Rating    string  `json:"rating"`
	Tags      tagList `json:"tags"`
}

// tagList accepts tags either as one space-delimited string or as an
// array of tags.
type tagList string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = tagList(s)
		return nil
	}

	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return err
	}
	*t = tagList(strings.Join(ss, " "))
	return nil
}

func parseMeta(data []byte) (meta, error) {
	var m meta
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	m.CreatedAt = gnlib.FixUtf8(m.CreatedAt)
	m.Filename = gnlib.FixUtf8(m.Filename)
	m.Extension = gnlib.FixUtf8(m.Extension)
	m.MD5 = gnlib.FixUtf8(m.MD5)
	m.Rating = gnlib.FixUtf8(m.Rating)
	m.Tags = tagList(gnlib.FixUtf8(string(m.Tags)))
	return m, nil
}

// missing returns the name of the first required field absent from m.
func (m meta) missing() string {
	switch {
	case m.ID == nil:
		return "id"
	case m.Filename == "":
		return "filename"
	case m.Extension == "":
		return "extension"
	}
	return ""
}
