package content

import (
	"strconv"

	"github.com/fatih/structs"
)

type InputType string

const (
	InputText     InputType = "text"
	InputURL      InputType = "url"
	InputNumber   InputType = "number"
	InputTextarea InputType = "textarea"
)

// Field describes one input of a kind's form. The admin page renders these
// as native inputs, so `Required`, the input type and `MaxLength` are hints
// for the browser only. Nothing here is checked before a submission is sent
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Hint        string
	Input       InputType
	Required    bool
	MaxLength   int
}

// ID is the html id of the field's input, eg. "album-cover_url"
func (f Field) ID(kind Kind) string {
	return kind.String() + "-" + f.Name
}

// Fields lists the kind's fields in wire order
func Fields(kind Kind) []Field {
	rec, err := New(kind)
	if err != nil {
		return nil
	}
	return FieldsOf(rec)
}

func FieldsOf(rec Record) []Field {
	var fields []Field
	for _, sf := range structs.New(rec).Fields() {
		name := sf.Tag("json")
		if name == "" || name == "-" {
			continue
		}
		field := Field{
			Name:        name,
			Label:       sf.Tag("label"),
			Placeholder: sf.Tag("placeholder"),
			Hint:        sf.Tag("hint"),
			Input:       InputText,
			Required:    sf.Tag("required") == "true",
		}
		if in := sf.Tag("input"); in != "" {
			field.Input = InputType(in)
		}
		if ml := sf.Tag("maxlength"); ml != "" {
			field.MaxLength, _ = strconv.Atoi(ml)
		}
		fields = append(fields, field)
	}
	return fields
}

// Values maps wire field names to the record's current values
func Values(rec Record) map[string]string {
	ret := map[string]string{}
	for _, sf := range structs.New(rec).Fields() {
		name := sf.Tag("json")
		if name == "" || name == "-" {
			continue
		}
		v, _ := sf.Value().(string)
		ret[name] = v
	}
	return ret
}
