package runtime

import (
	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"scadatag/pkg/runtime/constant"
	"testing"
)

func TestValidateGenerationConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *GenerationConfig)
		withLink bool
		want     []string
	}{
		{name: "defaults", mutate: func(c *GenerationConfig) {}, withLink: true},
		{name: "negative start id", mutate: func(c *GenerationConfig) { c.StartID = -1 }, want: []string{"generation.startId"}},
		{
			name:   "siemens db number",
			mutate: func(c *GenerationConfig) { c.DeviceFamily = constant.FamilySiemens; c.DBNumber = "DB3" },
			want:   []string{"generation.dbNumber"},
		},
		{
			name:   "siemens without db number",
			mutate: func(c *GenerationConfig) { c.DeviceFamily = constant.FamilySiemens; c.DBNumber = "" },
			want:   []string{"generation.dbNumber"},
		},
		{name: "db number ignored for AB", mutate: func(c *GenerationConfig) { c.DeviceFamily = constant.FamilyAllenBradley; c.DBNumber = "" }},
		{name: "bad ip", mutate: func(c *GenerationConfig) { c.Link.IP = "192.168.10.256" }, withLink: true, want: []string{"generation.link.ip"}},
		{name: "link ignored", mutate: func(c *GenerationConfig) { c.Link.IP = "" }},
		{
			name:     "serial without port",
			mutate:   func(c *GenerationConfig) { c.Link.Mode = constant.LinkSerial; c.Link.Port = " " },
			withLink: true,
			want:     []string{"generation.link.port"},
		},
		{name: "unknown link mode", mutate: func(c *GenerationConfig) { c.Link.Mode = 7 }, withLink: true, want: []string{"generation.link.mode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDefaultGenerationConfig()
			tt.mutate(&c)
			errs := ValidateGenerationConfig(&c, field.NewPath("generation"), tt.withLink)
			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTable(t *testing.T) {
	var nilTable *Table
	assert.Zero(t, nilTable.Len())
	assert.True(t, nilTable.Empty())
	assert.True(t, (&Table{Headers: []string{"TagID"}}).Empty())
	tb := &Table{Headers: []string{"TagID"}, Rows: []OutputRow{{"1001"}}}
	assert.False(t, tb.Empty())
	assert.Equal(t, 1, tb.Len())
}
