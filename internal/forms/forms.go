// Package forms declares the typed field sets submitted by the HTML forms
// and validates them declaratively. Decode functions always return the
// decoded values, valid or not, so invalid submissions can be re-rendered
// without data loss; failures come with a field→message map.
package forms

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const dateLayout = "2006-01-02"

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Error messages use the schema field names the templates know.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoginForm is the credential submission shape.
type LoginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

// EntryForm is the shared new-entry/edit-entry shape. Numeric and date
// fields stay strings here so whatever the user typed survives a failed
// validation round-trip; the typed accessors convert after validation.
type EntryForm struct {
	Title        string `schema:"title" validate:"required"`
	LearningDate string `schema:"learning_date" validate:"omitempty,datetime=2006-01-02"`
	TimeSpent    string `schema:"time_spent" validate:"required"`
	WhatLearned  string `schema:"what_learned" validate:"required"`
	Resources    string `schema:"resources" validate:"required"`
	Tags         string `schema:"tags" validate:"omitempty"`
}

// DecodeLogin parses and validates a login submission.
func DecodeLogin(values url.Values) (LoginForm, map[string]string) {
	var f LoginForm
	if err := decoder.Decode(&f, values); err != nil {
		return f, map[string]string{"form": "could not read form submission"}
	}
	return f, check(f, nil)
}

// DecodeEntry parses and validates an entry submission.
func DecodeEntry(values url.Values) (EntryForm, map[string]string) {
	var f EntryForm
	if err := decoder.Decode(&f, values); err != nil {
		return f, map[string]string{"form": "could not read form submission"}
	}

	extra := map[string]string{}
	if strings.TrimSpace(f.TimeSpent) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(f.TimeSpent))
		switch {
		case err != nil:
			extra["time_spent"] = "time spent must be a whole number of minutes"
		case n < 0:
			extra["time_spent"] = "time spent cannot be negative"
		}
	}
	return f, check(f, extra)
}

// check runs the declarative rules and merges any extra field errors.
// Returns nil when the form is clean.
func check(form any, extra map[string]string) map[string]string {
	errs := map[string]string{}
	if err := validate.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = message(fe)
				}
			}
		} else {
			errs["form"] = "could not validate form submission"
		}
	}
	for field, msg := range extra {
		errs[field] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "datetime":
		return "date must look like 2006-01-02"
	default:
		return "this value is not valid"
	}
}

// LearningDateOrNow returns the submitted learning date, or now when the
// field was left blank. Call only after validation passed.
func (f EntryForm) LearningDateOrNow(now time.Time) time.Time {
	s := strings.TrimSpace(f.LearningDate)
	if s == "" {
		return now
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return now
	}
	return t
}

// TimeSpentMinutes converts the validated time_spent field.
func (f EntryForm) TimeSpentMinutes() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.TimeSpent))
	return n
}

// TagList splits the tags field on whitespace into deduplicated tokens,
// preserving first-seen order. An empty field yields zero tags.
func (f EntryForm) TagList() []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range strings.Fields(f.Tags) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
