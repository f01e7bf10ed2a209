// Package verflag defines the --version flag shared by all scadatag commands.
package verflag

import (
	"fmt"
	"github.com/spf13/pflag"
	"io"
	"os"
	"scadatag/pkg/version"
	"strconv"
)

type versionValue int

const (
	VersionFalse versionValue = 0
	VersionTrue  versionValue = 1
	VersionRaw   versionValue = 2
)

const strRawVersion string = "raw"

func (v *versionValue) IsBoolFlag() bool {
	return true
}

func (v *versionValue) Get() interface{} {
	return *v
}

func (v *versionValue) Set(s string) error {
	if s == strRawVersion {
		*v = VersionRaw
		return nil
	}
	boolVal, err := strconv.ParseBool(s)
	if boolVal {
		*v = VersionTrue
	} else {
		*v = VersionFalse
	}
	return err
}

func (v *versionValue) String() string {
	if *v == VersionRaw {
		return strRawVersion
	}
	return fmt.Sprintf("%v", bool(*v == VersionTrue))
}

func (v *versionValue) Type() string {
	return "version"
}

const versionFlagName = "version"

var (
	versionFlag           = VersionFalse
	output      io.Writer = os.Stdout
	exit                  = os.Exit
)

// AddFlags registers --version on fs. --version=raw prints the full build information.
func AddFlags(fs *pflag.FlagSet) {
	fs.Var(&versionFlag, versionFlagName, "Print version information and quit")
	fs.Lookup(versionFlagName).NoOptDefVal = "true"
}

// PrintAndExitIfRequested will check if the --version flag was passed and, if so, print the version and exit.
func PrintAndExitIfRequested() {
	if versionFlag == VersionRaw {
		fmt.Fprintf(output, "%#v\n", version.Get())
		exit(0)
	} else if versionFlag == VersionTrue {
		fmt.Fprintf(output, "scadatag %s\n", version.Get())
		exit(0)
	}
}
