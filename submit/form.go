package submit

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"

	"go.senan.xyz/musicarchive/content"
)

// Form holds the current field values of one kind. It's not safe for
// concurrent use, the Desk owning it serialises access
type Form struct {
	kind content.Kind
	rec  content.Record
}

func NewForm(kind content.Kind) (*Form, error) {
	rec, err := content.New(kind)
	if err != nil {
		return nil, err
	}
	return &Form{kind: kind, rec: rec}, nil
}

// Set copies posted values into the form verbatim. Only the kind's own fields
// are read, anything else in the post is ignored. A field missing from the
// post keeps its current value
func (f *Form) Set(values url.Values) error {
	input := map[string]any{}
	for _, field := range content.FieldsOf(f.rec) {
		if vs, ok := values[field.Name]; ok {
			var v string
			if len(vs) > 0 {
				v = vs[0]
			}
			input[field.Name] = v
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  f.rec,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode %s form: %w", f.kind, err)
	}
	return nil
}

// Reset clears every field back to empty
func (f *Form) Reset() {
	f.rec = content.MustNew(f.kind)
}

func (f *Form) Values() map[string]string {
	return content.Values(f.rec)
}

// Record returns a copy of the form as the record to send
func (f *Form) Record() content.Record {
	switch rec := f.rec.(type) {
	case *content.Album:
		cp := *rec
		return &cp
	case *content.Track:
		cp := *rec
		return &cp
	case *content.Video:
		cp := *rec
		return &cp
	case *content.Lyric:
		cp := *rec
		return &cp
	default:
		panic(fmt.Sprintf("unknown record %T", rec))
	}
}

// Empty reports whether every field is blank
func (f *Form) Empty() bool {
	for _, v := range f.Values() {
		if v != "" {
			return false
		}
	}
	return true
}
