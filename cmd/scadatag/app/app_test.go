package app

import (
	"bytes"
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"os"
	"path/filepath"
	"scadatag/cmd/scadatag/config"
	"scadatag/cmd/scadatag/options"
	"scadatag/pkg/notify"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewScadatagCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config_bewgsed", "SIEMENS", "valve.json"),
		`[{"name":"_OPEN","desc":"开到位","type":"1","addbyte":"0","addbit":"3"},{"name":"_POS","desc":"开度","type":"2","addbyte":"4"}]`)
	inv := filepath.Join(root, "devices.csv")
	writeFile(t, inv, "设备代号,设备描述,拼接地址\nV101,1号阀,10\n")

	out, err := execute(t, "generate", "--dialect", "bewgsed", "-d", root, "-f", "SIEMENS", "-t", "valve.json", "-i", inv)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")

	files, err := filepath.Glob(filepath.Join(root, "output_bewgsed", "SIEMENS_valve_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	text, err := simplifiedchinese.GBK.NewDecoder().String(string(data))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(text), "\r\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "序号,所属通道,驱动,所属设备,点类型,点名,描述"))
	assert.True(t, strings.HasPrefix(lines[1], "1001,S127,PLC_SIEMENS_S7_1200_TCP,PLC1,1,V101_OPEN,1号阀开到位,3,10,3,"), lines[1])
}

func TestGenerateCommandSingleDevice(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config_kingscada", "AB", "motor.yaml"), "- name: _RUN\n  desc: 运行\n  type: IODisc\n  access: 读写\n  address: RUN\n")

	out, err := execute(t, "generate", "-d", root, "-f", "AB", "-t", "motor.yaml",
		"--code", "M1", "--description", "电机", "--base-address", "Motor1", "--link", "serial", "--serial-port", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 rows)")
}

func TestGenerateCommandErrors(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "generate", "-d", root, "-f", "SIEMENS")
	assert.Error(t, err, "template and devices are required")

	_, err = execute(t, "generate", "-d", root, "-f", "SIEMENS", "-t", "missing.json", "--code", "P1", "--base-address", "1")
	assert.Error(t, err)
	assert.NoDirExists(t, filepath.Join(root, "output_kingscada"))
}

func TestListCommand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config_kingscada", "SIEMENS", "pump.json"), "[]")
	writeFile(t, filepath.Join(root, "config_kingscada", "SIEMENS", "fan.yaml"), "[]")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config_kingscada", "AB"), 0755))

	out, err := execute(t, "list", "-d", root)
	require.NoError(t, err)
	assert.Equal(t, "AB\nSIEMENS\n", out)

	out, err = execute(t, "list", "-d", root, "-f", "SIEMENS")
	require.NoError(t, err)
	assert.Equal(t, "fan.yaml\npump.json\n", out)

	_, err = execute(t, "list", "-d", root, "-f", "OMRON")
	assert.Error(t, err)

	out, err = execute(t, "list", "-d", root, "--dialect", "bewgsed")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.DirExists(t, filepath.Join(root, "config_bewgsed"))
}

type closeCounter struct {
	closed int
}

func (c *closeCounter) Notify(context.Context, *notify.Event) error { return nil }
func (c *closeCounter) Close()                                      { c.closed++ }

func TestServeClosesNotifier(t *testing.T) {
	counter := &closeCounter{}
	defaultConfig := serveConfig
	defer func() { serveConfig = defaultConfig }()
	serveConfig = func(o *options.ServeOptions) (*config.Config, error) {
		c, err := o.Config()
		if err != nil {
			return nil, err
		}
		c.Notifier = counter
		return c, nil
	}

	o := options.NewDefaultServeOptions()
	o.BaseDir = t.TempDir()
	o.Port = "0"
	o.Wait = time.Second
	stop := make(chan os.Signal, 1)

	stop <- os.Interrupt
	require.NoError(t, serve(o, stop))
	assert.Equal(t, 1, counter.closed)

	o.CertFile = filepath.Join(o.BaseDir, "missing.crt")
	o.KeyFile = filepath.Join(o.BaseDir, "missing.key")
	assert.Error(t, serve(o, stop))
	assert.Equal(t, 2, counter.closed)
}
