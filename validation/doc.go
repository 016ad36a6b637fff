// Package validation validates starpipe settings.
//
// It supports struct tag validation (using the validator library, with a
// `starident` tag for Starlark names) and programmatic validation with error
// collection for options assembled in code.
//
// # Struct Tag Validation
//
//	type RewriteConfig struct {
//	    Placeholder string `validate:"required,starident"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Name("placeholder", p)
//	err := v.Validate()
package validation
