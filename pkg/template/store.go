package template

import (
	"github.com/gopcua/opcua/ua"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"os"
	"path/filepath"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"scadatag/pkg/storage"
	"sigs.k8s.io/yaml"
	"strings"
)

var templateExts = []string{".json", ".yaml", ".yml"}

// keyAliases maps the short keys of hand written template files to TemplatePoint fields.
var keyAliases = map[string]string{
	"desc":    "description",
	"type":    "pointType",
	"access":  "accessMode",
	"addbyte": "addressByte",
	"addbit":  "addressBit",
	"nodeid":  "nodeId",
}

// Store loads addressing templates from <root>/<configDir>/<deviceFamily>/<file>.
type Store struct {
	configDir string
	client    *storage.FsClient
}

func NewStore(client *storage.FsClient, configDir string) *Store {
	return &Store{
		configDir: configDir,
		client:    client,
	}
}

func (s *Store) Dir() string {
	return filepath.Join(s.client.Root(), s.configDir)
}

// ListDeviceFamilies lists the family directories. A missing root is created and
// reported as an empty list.
func (s *Store) ListDeviceFamilies() ([]string, error) {
	created, err := s.client.EnsureDir(s.configDir)
	if err != nil {
		klog.ErrorS(err, "Failed to create template root", "dir", s.Dir())
		return []string{}, errors.Wrapf(err, "create template root %s", s.Dir())
	}
	if created {
		klog.Warningf("Template root did not exist and was created: %s", s.Dir())
		return []string{}, nil
	}
	return s.client.ListDirs(s.configDir)
}

// ListTemplates lists the template files of a family.
func (s *Store) ListTemplates(deviceFamily string) ([]string, error) {
	if err := checkName(deviceFamily); err != nil {
		return []string{}, err
	}
	files, err := s.client.ListFiles(templateExts, s.configDir, deviceFamily)
	if err != nil {
		if os.IsNotExist(err) {
			klog.ErrorS(err, "Device family directory does not exist", "dir", filepath.Join(s.Dir(), deviceFamily))
			return []string{}, errors.Wrapf(constant.ErrConfigNotFound, "device family %s", deviceFamily)
		}
		return []string{}, err
	}
	return files, nil
}

// LoadTemplate parses one template file. A valid empty template yields an empty,
// non-nil slice; a missing file ErrConfigNotFound; a malformed one ErrParse.
func (s *Store) LoadTemplate(deviceFamily, filename string) ([]runtime.TemplatePoint, error) {
	if err := checkName(deviceFamily); err != nil {
		return nil, err
	}
	if err := checkName(filename); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir(), deviceFamily, filename)
	data, err := s.client.Get(s.configDir, deviceFamily, filename)
	if err != nil {
		if os.IsNotExist(err) {
			klog.ErrorS(err, "Template file does not exist", "file", path)
			return nil, errors.Wrapf(constant.ErrConfigNotFound, "template %s", path)
		}
		klog.ErrorS(err, "Failed to read template", "file", path)
		return nil, errors.Wrapf(constant.ErrParse, "read template %s: %v", path, err)
	}

	points, err := Parse(data)
	if err != nil {
		klog.ErrorS(err, "Failed to load template", "file", path)
		return nil, errors.Wrapf(err, "template %s", path)
	}
	klog.InfoS("Loaded template", "file", path, "points", len(points))
	return points, nil
}

// Parse decodes a JSON or YAML array of point objects.
func Parse(data []byte) ([]runtime.TemplatePoint, error) {
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(constant.ErrParse, "%v", err)
	}
	if raw == nil {
		return nil, errors.Wrap(constant.ErrParse, "template is not a list of points")
	}

	points := make([]runtime.TemplatePoint, 0, len(raw))
	for i, item := range raw {
		if item == nil {
			return nil, errors.Wrapf(constant.ErrParse, "point %d: not an object", i)
		}
		var p runtime.TemplatePoint
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &p,
		})
		if err != nil {
			return nil, err
		}
		if err = decoder.Decode(normalizeKeys(item)); err != nil {
			return nil, errors.Wrapf(constant.ErrParse, "point %d: %v", i, err)
		}
		if len(p.NodeID) > 0 {
			if _, err = ua.ParseNodeID(p.NodeID); err != nil {
				return nil, errors.Wrapf(constant.ErrParse, "point %d: node id %q: %v", i, p.NodeID, err)
			}
		}
		points = append(points, p)
	}
	return points, nil
}

func normalizeKeys(item map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(item))
	for k, v := range item {
		if alias, ok := keyAliases[strings.ToLower(k)]; ok {
			k = alias
		}
		out[k] = v
	}
	return out
}

// checkName rejects names that would escape the template root.
func checkName(name string) error {
	if !storage.ValidName(name) {
		return errors.Wrapf(constant.ErrConfigNotFound, "invalid name %q", name)
	}
	return nil
}
