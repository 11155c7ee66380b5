package view

// FieldEdit is the local state of one edit field: whether it shows its edit
// representation and the unsaved text.
type FieldEdit struct {
	Editing bool   `json:"editing"`
	Draft   string `json:"draft"`
}

// Edits maps field names to their local state.
type Edits map[string]FieldEdit

// WithEdits returns a copy of p with local edit state overlaid on its detail
// view. Fields the session may not edit are left alone. A Save action
// appears while any field is in edit mode. p itself is not modified.
func (p Page) WithEdits(edits Edits) Page {
	if p.Detail == nil || len(edits) == 0 {
		return p
	}

	d := *p.Detail
	d.Actions = append([]Action(nil), d.Actions...)

	editing := false
	for _, f := range []*EditField{&d.Summary, &d.Details} {
		e, ok := edits[f.Name]
		if !ok || !e.Editing || !f.Editable {
			continue
		}
		f.Editing = true
		f.Draft = e.Draft
		if f.Toggle != nil {
			toggle := *f.Toggle
			toggle.Label = "Cancel"
			f.Toggle = &toggle
		}
		editing = true
	}

	if editing {
		save := Action{Type: ActionSaveCase, Label: "Save", CaseID: d.ID}
		d.Actions = append([]Action{save}, d.Actions...)
	}
	p.Detail = &d
	return p
}
