package options

import (
	"scadatag/pkg/runtime/constant"
)

// linkModeValue binds a constant.LinkMode to a pflag.
type linkModeValue struct {
	mode *constant.LinkMode
}

func (v *linkModeValue) String() string {
	if v.mode == nil {
		return constant.LinkEthernet.String()
	}
	return v.mode.String()
}

func (v *linkModeValue) Set(s string) error {
	m, err := constant.ParseLinkMode(s)
	if err != nil {
		return err
	}
	*v.mode = m
	return nil
}

func (v *linkModeValue) Type() string {
	return "linkMode"
}

type deviceFamilyValue struct {
	family *constant.DeviceFamily
}

func (v *deviceFamilyValue) String() string {
	if v.family == nil {
		return constant.FamilyUnset.String()
	}
	return v.family.String()
}

func (v *deviceFamilyValue) Set(s string) error {
	*v.family = constant.ParseDeviceFamily(s)
	return nil
}

func (v *deviceFamilyValue) Type() string {
	return "deviceFamily"
}
