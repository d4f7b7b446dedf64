// Package validation provides input validation for fixture documents and
// configuration.
//
// It supports struct tag validation through go-playground/validator and
// programmatic validation with error collection for rules tags cannot
// express. Both report an *errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type tableDoc struct {
//	    Table string `yaml:"table" validate:"required,identifier"`
//	}
//	err := validation.Validate(doc)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(doc.Factory == "" || len(doc.Tables) == 0, "factory", "cannot be combined with tables")
//	err := v.Validate()
package validation
