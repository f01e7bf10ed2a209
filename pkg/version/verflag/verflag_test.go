package verflag

import (
	"bytes"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
)

func TestPrintAndExitIfRequested(t *testing.T) {
	buf := &bytes.Buffer{}
	code := -1
	output, exit = buf, func(c int) { code = c }
	t.Cleanup(func() {
		versionFlag, output, exit = VersionFalse, os.Stdout, os.Exit
	})

	tests := []struct {
		args []string
		want string
		code int
	}{
		{nil, "", -1},
		{[]string{"--version"}, "scadatag v0.0.0-master\n", 0},
		{[]string{"--version=false"}, "", -1},
		{[]string{"--version=raw"}, "version.Info{GitVersion:\"v0.0.0-master\"", 0},
	}
	for _, tt := range tests {
		buf.Reset()
		code = -1
		versionFlag = VersionFalse
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		AddFlags(fs)
		require.NoError(t, fs.Parse(tt.args))

		PrintAndExitIfRequested()
		assert.Equal(t, tt.code, code, tt.args)
		if tt.want == "" {
			assert.Empty(t, buf.String())
		} else {
			assert.Contains(t, buf.String(), tt.want)
		}
	}
}
