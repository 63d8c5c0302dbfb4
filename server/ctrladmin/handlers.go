package ctrladmin

import (
	"errors"
	"fmt"
	"net/http"

	"go.senan.xyz/musicarchive/content"
	"go.senan.xyz/musicarchive/server/ctrlbase"
	"go.senan.xyz/musicarchive/submit"
)

type fieldView struct {
	content.Field
	ID    string
	Value string
}

type formView struct {
	formText
	Kind   content.Kind
	Tab    string
	Action string
	Active bool
	Busy   bool
	Fields []fieldView
}

type page struct {
	Forms []formView
}

func (c *Controller) ServeAdmin(r *http.Request) *ctrlbase.Response {
	_, desk := c.desk(ctrlbase.Session(r))
	active := kindFromTab(r.URL.Query().Get("tab"))

	data := &page{}
	for _, kind := range content.Kinds {
		values := desk.Values(kind)
		form := formView{
			formText: formTexts[kind],
			Kind:     kind,
			Tab:      kind.Tab(),
			Action:   c.Path("/admin/" + kind.Path()),
			Active:   kind == active,
			Busy:     desk.Busy(kind),
		}
		for _, field := range content.Fields(kind) {
			form.Fields = append(form.Fields, fieldView{
				Field: field,
				ID:    field.ID(kind),
				Value: values[field.Name],
			})
		}
		data.Forms = append(data.Forms, form)
	}
	return &ctrlbase.Response{
		Template: "admin.tmpl",
		Data:     data,
	}
}

func (c *Controller) ServeSubmitDo(r *http.Request) *ctrlbase.Response {
	kind, err := content.ParseKind(r.PathValue("kind"))
	if err != nil {
		return &ctrlbase.Response{Code: http.StatusNotFound, Err: fmt.Sprintf("unknown kind %q", r.PathValue("kind"))}
	}
	if err := r.ParseForm(); err != nil {
		return &ctrlbase.Response{Code: http.StatusBadRequest, Err: "please provide a valid form"}
	}

	back := fmt.Sprintf("/admin?tab=%s", kind.Tab())
	deskID, desk := c.desk(ctrlbase.Session(r))
	report, err := desk.Submit(r.Context(), kind, r.PostForm)

	// the browse page may have changed the session while this was in flight.
	// only the desk id is carried over to the reloaded copy
	resp := &ctrlbase.Response{
		Redirect:      back,
		Reload:        true,
		SessionValues: map[string]any{sessDeskID: deskID},
	}
	switch {
	case errors.Is(err, submit.ErrBusy):
		resp.FlashW = []ctrlbase.Flash{{Title: "please wait", Message: "another submission is still in progress"}}
		return resp
	case err != nil:
		resp.Redirect = ""
		resp.Code = http.StatusInternalServerError
		resp.Err = fmt.Sprintf("submitting %s: %v", kind, err)
		return resp
	}

	if n := report.Notification; n != nil {
		flash := ctrlbase.Flash{Title: n.Title, Message: n.Description}
		switch n.Variant {
		case submit.VariantDestructive:
			resp.FlashW = append(resp.FlashW, flash)
		default:
			resp.FlashN = append(resp.FlashN, flash)
		}
	}
	return resp
}
