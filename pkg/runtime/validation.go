package runtime

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
	"net"
	"scadatag/pkg/runtime/constant"
	"strconv"
	"strings"
)

func ValidateGenerationConfig(c *GenerationConfig, fldPath *field.Path, withLink bool) field.ErrorList {
	var allErrs field.ErrorList
	if c.StartID < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("startId"), c.StartID, "must be greater than or equal to 0"))
	}
	if c.DeviceFamily == constant.FamilySiemens {
		if len(c.DBNumber) == 0 {
			allErrs = append(allErrs, field.Required(fldPath.Child("dbNumber"), "required for SIEMENS devices"))
		} else if n, err := strconv.Atoi(c.DBNumber); err != nil || n < 0 {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("dbNumber"), c.DBNumber, "must be a non-negative integer"))
		}
	}
	if withLink {
		allErrs = append(allErrs, ValidateLinkConfig(&c.Link, fldPath.Child("link"))...)
	}
	return allErrs
}

func ValidateLinkConfig(l *LinkConfig, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList
	switch l.Mode {
	case constant.LinkSerial:
		if len(strings.TrimSpace(l.Port)) == 0 {
			allErrs = append(allErrs, field.Required(fldPath.Child("port"), "required for serial links"))
		}
	case constant.LinkEthernet:
		if len(l.IP) == 0 {
			allErrs = append(allErrs, field.Required(fldPath.Child("ip"), "required for ethernet links"))
		} else if net.ParseIP(l.IP) == nil {
			allErrs = append(allErrs, field.Invalid(fldPath.Child("ip"), l.IP, "must be a valid IP address"))
		}
	default:
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("mode"), l.Mode, []string{"Ethernet", "Serial"}))
	}
	return allErrs
}
