package form

import (
	"github.com/devflow-dev/devflow/pkg/vdom"
)

// Render returns the form markup: one labelled input per field in default
// order with its error beneath, then the submit button and the footer.
func (e *Engine) Render() *vdom.VNode {
	fields := e.Fields()
	state := e.State()

	label := e.chrome.SubmitLabel
	if state == Submitting {
		label = e.chrome.SubmittingLabel
	}

	return vdom.Form(
		vdom.Class("form"),
		vdom.Method("post"),
		actionAttr(e.action),
		vdom.NoValidate(),
		vdom.Data("form", e.name),
		vdom.Data("state", state.String()),
		vdom.Range(fields, func(f Field, _ int) *vdom.VNode {
			return e.renderField(f)
		}),
		vdom.Button(
			vdom.Type("submit"),
			vdom.Class("form-submit"),
			vdom.Disabled(state == Submitting),
			label,
		),
		e.chrome.Footer,
	)
}

func (e *Engine) renderField(f Field) *vdom.VNode {
	id := e.name + "-" + f.Name
	errID := id + "-error"

	value := f.Value
	if f.Masked {
		value = ""
	}

	var describedBy vdom.Attr
	if f.Error != "" {
		describedBy = vdom.AriaDescribedBy(errID)
	}

	var required vdom.Attr
	if f.Required {
		required = vdom.Required()
	}

	return vdom.Div(
		vdom.Class("form-field"),
		vdom.Key(f.Name),
		vdom.Label(vdom.For(id), vdom.Class("form-label"), f.Label),
		vdom.Input(
			vdom.ID(id),
			vdom.NameAttr(f.Name),
			vdom.Type(f.InputType()),
			vdom.Placeholder(f.Placeholder),
			vdom.Value(value),
			required,
			autoComplete(f.AutoComplete),
			vdom.AriaInvalid(f.Error != ""),
			describedBy,
			vdom.Class("form-input"),
		),
		vdom.If(f.Error != "", vdom.P(
			vdom.ID(errID),
			vdom.Class("form-error"),
			vdom.Role("alert"),
			f.Error,
		)),
	)
}

func actionAttr(action string) vdom.Attr {
	if action == "" {
		return vdom.Attr{}
	}
	return vdom.Action(action)
}

func autoComplete(value string) vdom.Attr {
	if value == "" {
		return vdom.Attr{}
	}
	return vdom.AutoComplete(value)
}
