package form

import "sort"

// FieldErrors maps a field name to its first failing message. A nil or
// empty FieldErrors means the values are valid.
type FieldErrors map[string]string

// Has reports whether field has an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the names of the failing fields, sorted.
func (e FieldErrors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Schema validates a FieldSet. On success it returns the validated value
// and no errors.
type Schema interface {
	Validate(values FieldSet) (FieldSet, FieldErrors)
}

// SchemaFunc is a function that implements Schema.
type SchemaFunc func(values FieldSet) (FieldSet, FieldErrors)

func (f SchemaFunc) Validate(values FieldSet) (FieldSet, FieldErrors) {
	return f(values)
}

type fieldRules struct {
	name       string
	validators []Validator
}

// Rules is a declarative Schema built from per-field validator chains.
// Fields are checked in declaration order; within a field the first failing
// validator wins.
//
//	schema := form.NewRules().
//	    Field("email", form.MinLength(1, "Email is required"), form.Email("")).
//	    Field("password", form.MinLength(6, ""))
type Rules struct {
	fields []fieldRules
}

// NewRules returns an empty rule set.
func NewRules() *Rules {
	return &Rules{}
}

// Field appends validators to name, declaring it on first use.
func (r *Rules) Field(name string, validators ...Validator) *Rules {
	for i := range r.fields {
		if r.fields[i].name == name {
			r.fields[i].validators = append(r.fields[i].validators, validators...)
			return r
		}
	}
	r.fields = append(r.fields, fieldRules{name: name, validators: validators})
	return r
}

// Names returns the declared field names in order.
func (r *Rules) Names() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.name
	}
	return out
}

// Validate implements Schema. The validated value holds exactly the
// declared fields, in declaration order; undeclared input fields are
// dropped and missing ones are validated as "".
func (r *Rules) Validate(values FieldSet) (FieldSet, FieldErrors) {
	var (
		out  FieldSet
		errs FieldErrors
	)
	for _, f := range r.fields {
		value := values.Get(f.name)
		out.Set(f.name, value)
		for _, v := range f.validators {
			if err := v.Validate(value); err != nil {
				if errs == nil {
					errs = make(FieldErrors)
				}
				errs[f.name] = messageOf(err)
				break
			}
		}
	}
	if len(errs) > 0 {
		return FieldSet{}, errs
	}
	return out, nil
}

func messageOf(err error) string {
	if ve, ok := err.(ValidationError); ok {
		return ve.Message
	}
	return err.Error()
}
