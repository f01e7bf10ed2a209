package options

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
	"scadatag/pkg/pointtable"
	"strconv"
)

func (o *GenerateOptions) Validate() []error {
	return validate(&o.BaseOptions, ValidateGenerateOptions(o))
}

func (o *ListOptions) Validate() []error {
	return validate(&o.BaseOptions, ValidateListOptions(o))
}

func (o *ServeOptions) Validate() []error {
	return validate(&o.BaseOptions, ValidateServeOptions(o))
}

func validate(base interface{ ValidateAndApply() error }, allErrs field.ErrorList) []error {
	var errs []error
	if err := base.ValidateAndApply(); err != nil {
		errs = append(errs, err)
	}
	if len(allErrs) != 0 {
		errs = append(errs, allErrs.ToAggregate().Errors()...)
	}
	return errs
}

func ValidateGenerateOptions(o *GenerateOptions) field.ErrorList {
	allErrs := validateDialect(o.Dialect, field.NewPath("dialect"))
	if len(o.Family) == 0 {
		allErrs = append(allErrs, field.Required(field.NewPath("family"), ""))
	}
	if len(o.Template) == 0 {
		allErrs = append(allErrs, field.Required(field.NewPath("template"), ""))
	}
	switch {
	case len(o.Inventory) == 0 && len(o.Device.Code) == 0:
		allErrs = append(allErrs, field.Required(field.NewPath("inventory"), "either an inventory file or a single device code is required"))
	case len(o.Inventory) > 0 && len(o.Device.Code) > 0:
		allErrs = append(allErrs, field.Forbidden(field.NewPath("device"), "a single device cannot be combined with an inventory file"))
	}
	allErrs = append(allErrs, ValidateGenerationOptions(&o.GenerationOptions, nil)...)
	return allErrs
}

func ValidateListOptions(o *ListOptions) field.ErrorList {
	allErrs := validateDialect(o.Dialect, field.NewPath("dialect"))
	if len(o.BaseDir) == 0 {
		allErrs = append(allErrs, field.Required(field.NewPath("baseDir"), ""))
	}
	return allErrs
}

func ValidateServeOptions(o *ServeOptions) field.ErrorList {
	var allErrs field.ErrorList
	if port, err := strconv.Atoi(o.Port); err != nil || port < 1 || port > 65535 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("port"), o.Port, "must be a port number between 1 and 65535"))
	}
	if o.Wait < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("graceful-timeout"), o.Wait.String(), "must not be negative"))
	}
	if (len(o.CertFile) == 0) != (len(o.KeyFile) == 0) {
		allErrs = append(allErrs, field.Required(field.NewPath("keyFile"), "certFile and keyFile must be set together"))
	}
	allErrs = append(allErrs, ValidateGenerationOptions(&o.GenerationOptions, nil)...)
	return allErrs
}

func ValidateGenerationOptions(g *GenerationOptions, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList
	if len(g.BaseDir) == 0 {
		allErrs = append(allErrs, field.Required(fldPath.Child("baseDir"), ""))
	}

	colPath := fldPath.Child("inventoryColumns")
	seen := map[string]string{}
	for _, c := range []struct{ name, col string }{
		{"code", g.InventoryColumns.Code},
		{"description", g.InventoryColumns.Description},
		{"baseAddress", g.InventoryColumns.BaseAddress},
	} {
		name, col := c.name, c.col
		if len(col) == 0 {
			allErrs = append(allErrs, field.Required(colPath.Child(name), ""))
			continue
		}
		if other, ok := seen[col]; ok {
			allErrs = append(allErrs, field.Duplicate(colPath.Child(name), col+" (also "+other+")"))
			continue
		}
		seen[col] = name
	}

	if len(g.Notify.Broker) > 0 {
		if len(g.Notify.Topic) == 0 {
			allErrs = append(allErrs, field.Required(fldPath.Child("notify", "topic"), "required when a broker is set"))
		}
		if g.Notify.Timeout <= 0 {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("notify", "timeout"), g.Notify.Timeout.String(), "must be positive"))
		}
	}
	return allErrs
}

func validateDialect(dialect string, fldPath *field.Path) field.ErrorList {
	if _, err := pointtable.Lookup(dialect); err != nil {
		return field.ErrorList{field.NotSupported(fldPath, dialect, pointtable.Names())}
	}
	return nil
}
