package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/gin-gonic/gin"
	"io"
	"k8s.io/klog/v2"
	"net/http"
	"scadatag/pkg/apis"
	"scadatag/pkg/apis/response"
	"scadatag/pkg/pointtable"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
)

type dialectInfo struct {
	Name     string                              `json:"name"`
	Headers  []string                            `json:"headers"`
	Families map[string]pointtable.FamilyOptions `json:"families"`
}

type generateRequest struct {
	Family    string                 `json:"family"`
	Template  string                 `json:"template"`
	Inventory string                 `json:"inventory,omitempty"` // file name in <base>/inventory
	Devices   []runtime.DeviceRecord `json:"devices,omitempty"`
	Config    json.RawMessage        `json:"config,omitempty"` // JSON merge patch over the server defaults
}

func InstallHandler(group *gin.RouterGroup, mgr *Manager) {
	group.GET("/dialects", listDialects())
	group.GET("/dialects/:dialect/families", listFamilies(mgr))
	group.GET("/dialects/:dialect/families/:family/templates", listTemplates(mgr))
	group.GET("/dialects/:dialect/families/:family/templates/:template", getTemplate(mgr))
	group.POST("/dialects/:dialect/generate", generate(mgr))
	group.GET("/stats", stats(mgr))
}

func listDialects() gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := make([]dialectInfo, 0)
		for _, name := range pointtable.Names() {
			d, _ := pointtable.Lookup(name)
			families := map[string]pointtable.FamilyOptions{}
			for _, f := range []constant.DeviceFamily{constant.FamilySiemens, constant.FamilyAllenBradley} {
				families[f.String()] = d.FamilyOptions(f)
			}
			infos = append(infos, dialectInfo{Name: d.Name, Headers: d.Headers(), Families: families})
		}
		c.JSON(http.StatusOK, infos)
	}
}

func listFamilies(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := dialect(c)
		if !ok {
			return
		}
		families, err := mgr.Templates(d).ListDeviceFamilies()
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, families)
	}
}

func listTemplates(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := dialect(c)
		if !ok {
			return
		}
		templates, err := mgr.Templates(d).ListTemplates(c.Param(apis.Family))
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, templates)
	}
}

func getTemplate(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := dialect(c)
		if !ok {
			return
		}
		points, err := mgr.Templates(d).LoadTemplate(c.Param(apis.Family), c.Param(apis.Template))
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, points)
	}
}

func generate(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := dialect(c)
		if !ok {
			return
		}
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			klog.V(2).InfoS("Failed to get request body", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
			return
		}
		var body generateRequest
		if err := json.Unmarshal(bodyBytes, &body); err != nil {
			klog.V(2).InfoS("Failed to parse generate request", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}
		config, err := mergeConfig(mgr.Defaults(), body.Config)
		if err != nil {
			klog.V(2).InfoS("Failed to merge generation config", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		result, err := mgr.Generate(c.Request.Context(), &Request{
			Dialect:       d.Name,
			Family:        body.Family,
			Template:      body.Template,
			InventoryName: body.Inventory,
			Devices:       body.Devices,
			Config:        *config,
		})
		if err != nil {
			abort(c, err)
			return
		}
		c.Header(apis.Location, result.Path)
		c.JSON(http.StatusCreated, result)
	}
}

func stats(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Stats())
	}
}

// mergeConfig applies patch as a JSON merge patch to defaults.
func mergeConfig(defaults runtime.GenerationConfig, patch json.RawMessage) (*runtime.GenerationConfig, error) {
	if len(patch) == 0 {
		return &defaults, nil
	}
	doc, err := json.Marshal(defaults)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, err
	}
	config := &runtime.GenerationConfig{}
	if err := json.Unmarshal(merged, config); err != nil {
		return nil, err
	}
	return config, nil
}

func dialect(c *gin.Context) (*pointtable.Dialect, bool) {
	d, err := pointtable.Lookup(c.Param(apis.Dialect))
	if err != nil {
		abort(c, err)
		return nil, false
	}
	return d, true
}

func abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrUnknownDialect):
		c.JSON(http.StatusNotFound, response.NewMultiError(response.ErrResourceNotFound(fmt.Sprintf("dialect %q", c.Param(apis.Dialect)))))
	case errors.Is(err, constant.ErrConfigNotFound):
		c.JSON(http.StatusNotFound, response.NewMultiError(response.ErrResourceNotFound(err.Error())))
	case errors.Is(err, constant.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrInvalidConfig(err)))
	case errors.Is(err, constant.ErrParse):
		c.JSON(http.StatusUnprocessableEntity, response.NewMultiError(response.ErrParse(err)))
	case errors.Is(err, constant.ErrAddressingMismatch):
		c.JSON(http.StatusUnprocessableEntity, response.NewMultiError(response.ErrAddressing(err)))
	case errors.Is(err, constant.ErrEmptyInput):
		c.JSON(http.StatusConflict, response.NewMultiError(response.ErrEmptyInput(err)))
	case errors.Is(err, constant.ErrWriteFailure):
		c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrWriteFailure(err)))
	default:
		c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrInternal(err)))
	}
}
