package template

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"scadatag/pkg/storage"
	"testing"
)

const kingscadaTemplate = `[
  {"name": "_RUN", "desc": "运行", "type": "IODisc", "access": "读写", "address": "0.1"},
  {"name": "_SPD", "desc": "速度", "type": "IOFloat", "access": "只读", "address": 4}
]`

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	return NewStore(storage.NewFsClient(root), "config_kingscada"), root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestListDeviceFamiliesCreatesRoot(t *testing.T) {
	s, root := newStore(t)

	families, err := s.ListDeviceFamilies()
	require.NoError(t, err)
	assert.Empty(t, families)
	assert.NotNil(t, families)
	assert.DirExists(t, filepath.Join(root, "config_kingscada"))
}

func TestListDeviceFamilies(t *testing.T) {
	s, root := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config_kingscada", "SIEMENS"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config_kingscada", "AB"), 0755))
	writeFile(t, filepath.Join(root, "config_kingscada", "readme.txt"), "not a family")

	families, err := s.ListDeviceFamilies()
	require.NoError(t, err)
	assert.Equal(t, []string{"AB", "SIEMENS"}, families)
}

func TestListTemplates(t *testing.T) {
	s, root := newStore(t)
	dir := filepath.Join(root, "config_kingscada", "SIEMENS")
	writeFile(t, filepath.Join(dir, "pump.json"), kingscadaTemplate)
	writeFile(t, filepath.Join(dir, "valve.yaml"), "[]")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	templates, err := s.ListTemplates("SIEMENS")
	require.NoError(t, err)
	assert.Equal(t, []string{"pump.json", "valve.yaml"}, templates)

	templates, err = s.ListTemplates("OMRON")
	assert.True(t, errors.Is(err, constant.ErrConfigNotFound))
	assert.Empty(t, templates)
}

func TestLoadTemplate(t *testing.T) {
	s, root := newStore(t)
	dir := filepath.Join(root, "config_kingscada", "SIEMENS")
	writeFile(t, filepath.Join(dir, "pump.json"), kingscadaTemplate)
	writeFile(t, filepath.Join(dir, "empty.json"), "[]")
	writeFile(t, filepath.Join(dir, "broken.json"), `[{"name": "_RUN",`)

	points, err := s.LoadTemplate("SIEMENS", "pump.json")
	require.NoError(t, err)
	assert.Equal(t, []runtime.TemplatePoint{
		{Name: "_RUN", Description: "运行", PointType: "IODisc", AccessMode: "读写", Address: "0.1"},
		{Name: "_SPD", Description: "速度", PointType: "IOFloat", AccessMode: "只读", Address: "4"},
	}, points)

	points, err = s.LoadTemplate("SIEMENS", "empty.json")
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)

	points, err = s.LoadTemplate("SIEMENS", "broken.json")
	assert.True(t, errors.Is(err, constant.ErrParse))
	assert.Nil(t, points)

	_, err = s.LoadTemplate("SIEMENS", "missing.json")
	assert.True(t, errors.Is(err, constant.ErrConfigNotFound))

	_, err = s.LoadTemplate("SIEMENS", "../pump.json")
	assert.True(t, errors.Is(err, constant.ErrConfigNotFound))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []runtime.TemplatePoint
		wantErr bool
	}{
		{
			name: "bewgsed short keys",
			data: `[{"name": "_ST", "desc": "状态", "type": 1, "addbyte": 2, "addbit": 3}]`,
			want: []runtime.TemplatePoint{{Name: "_ST", Description: "状态", PointType: "1", AddressByte: "2", AddressBit: "3"}},
		},
		{
			name: "long keys",
			data: `[{"name": "_PV", "description": "值", "pointType": "Float", "accessMode": "读写", "address": "1.5"}]`,
			want: []runtime.TemplatePoint{{Name: "_PV", Description: "值", PointType: "Float", AccessMode: "读写", Address: "1.5"}},
		},
		{
			name: "yaml",
			data: "- name: _RUN\n  desc: 运行\n  type: IODisc\n  address: 0.1\n",
			want: []runtime.TemplatePoint{{Name: "_RUN", Description: "运行", PointType: "IODisc", Address: "0.1"}},
		},
		{
			name: "opc ua node id",
			data: `[{"name": "_T", "type": "IOFloat", "nodeId": "ns=2;s=Line1.Temp"}]`,
			want: []runtime.TemplatePoint{{Name: "_T", PointType: "IOFloat", NodeID: "ns=2;s=Line1.Temp"}},
		},
		{
			name:    "bad node id",
			data:    `[{"name": "_T", "nodeId": "ns=x;q=1"}]`,
			wantErr: true,
		},
		{
			name:    "object instead of list",
			data:    `{"name": "_RUN"}`,
			wantErr: true,
		},
		{
			name:    "empty document",
			data:    ``,
			wantErr: true,
		},
		{
			name:    "null point",
			data:    `[null]`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.True(t, errors.Is(err, constant.ErrParse), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
