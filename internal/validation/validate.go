// Package validation checks configuration structs with struct tags and
// reports how the importer will authenticate against a remote.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/taxonomy-import/cmd/application"
	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates value against its `validate` tags. The first failing
// field is returned as an *errors.ValidationError.
func Struct[T any](value T) error {
	if err := validate.Struct(value); err != nil {
		return toValidationError(err)
	}
	return nil
}

// Var validates a single value against tag.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		ve := toValidationError(err)
		if v, ok := ve.(*errors.ValidationError); ok {
			v.Field = field
		}
		return ve
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg := fmt.Sprintf("rule '%s' failed", fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("rule '%s' expected '%s'", fe.Tag(), fe.Param())
	}
	return errors.NewValidationError(fe.Field(), fe.Value(), msg)
}

// AuthMode describes how requests to a remote are authenticated.
type AuthMode string

// Authentication modes.
const (
	AuthNone              AuthMode = "none"
	AuthDisabled          AuthMode = "disabled"
	AuthClientCredentials AuthMode = "client-credentials"
)

// RemoteAuthMode returns the mode New will pick for r.
func RemoteAuthMode(r application.Remote) AuthMode {
	switch strings.TrimSpace(r.ClientID) {
	case "":
		return AuthNone
	case constants.IntegrationTestClientID:
		return AuthDisabled
	default:
		return AuthClientCredentials
	}
}

// CheckRemote validates r and the credentials its auth mode needs.
func CheckRemote(r application.Remote) error {
	if err := Struct(r); err != nil {
		return err
	}
	if RemoteAuthMode(r) != AuthClientCredentials {
		return nil
	}
	if strings.TrimSpace(r.ClientSecret) == "" {
		return errors.NewValidationError("client_secret", "", "required when a client id is set")
	}
	if strings.TrimSpace(r.TokenURL) == "" {
		return errors.NewValidationError("token_url", "", "required when a client id is set")
	}
	return nil
}
