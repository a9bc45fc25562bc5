// Package form declares the HTML forms of the site and validates them with
// go-playground/validator. Field errors are keyed by the form field name
// and carry translation message ids.
package form

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Message is a translatable error message.
type Message struct {
	ID     string
	Params []string
}

// Errors maps a form field name to its error messages. The empty key holds
// errors that belong to the form as a whole.
type Errors map[string][]Message

func (e Errors) Add(field string, id string, params ...string) {
	e[field] = append(e[field], Message{ID: id, Params: params})
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		err := validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	})
	return validate
}

// Validate checks obj against its validate tags.
func Validate(obj any) Errors {
	errs := Errors{}
	err := getValidator().Struct(obj)
	if err == nil {
		return errs
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs.Add("", "form.errors.invalid")
		return errs
	}
	for _, fe := range validationErrors {
		errs.Add(fe.Field(), messageID(fe), fe.Param())
	}
	return errs
}

func messageID(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "email", "max", "min", "eqfield", "username":
		return "form.errors." + fe.Tag()
	}
	return "form.errors.invalid"
}

// PostForm creates and edits posts. The author is never part of the form.
type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group"`
}

// Normalize strips the surrounding blanks the way a text field does.
func (f *PostForm) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)
}

// GroupId parses the selected group; an empty choice means no group.
func (f *PostForm) GroupId() (*int, error) {
	if f.Group == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(f.Group)
	if err != nil || id <= 0 {
		return nil, errors.New("invalid group choice")
	}
	return &id, nil
}

// Validate checks the text and the shape of the group choice. Whether the
// group exists is up to the caller.
func (f *PostForm) Validate() Errors {
	f.Normalize()
	errs := Validate(f)
	if _, err := f.GroupId(); err != nil {
		errs.Add("group", "form.errors.invalidChoice")
	}
	return errs
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f *LoginForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	return Validate(f)
}

type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

func (f *SignupForm) Validate() Errors {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return Validate(f)
}

type PasswordChangeForm struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required,min=8"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

func (f *PasswordChangeForm) Validate() Errors {
	return Validate(f)
}

type PasswordResetForm struct {
	Email string `form:"email" validate:"required,email,max=254"`
}

func (f *PasswordResetForm) Validate() Errors {
	f.Email = strings.TrimSpace(f.Email)
	return Validate(f)
}

type SetPasswordForm struct {
	NewPassword1 string `form:"new_password1" validate:"required,min=8"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

func (f *SetPasswordForm) Validate() Errors {
	return Validate(f)
}
