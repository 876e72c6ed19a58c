package hierarchy

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RawData is the ingestion contract: flat record lists, one per level,
// each record naming its parent explicitly. List order is load order and
// becomes the child order used by traversal and rendering.
type RawData struct {
	Locations        []RawLocation        `yaml:"locations" json:"locations" validate:"dive"`
	Applications     []RawApplication     `yaml:"applications" json:"applications" validate:"dive"`
	Modules          []RawModule          `yaml:"modules" json:"modules" validate:"dive"`
	Instrumentations []RawInstrumentation `yaml:"instrumentations" json:"instrumentations" validate:"dive"`
	Assets           []RawAsset           `yaml:"assets" json:"assets" validate:"dive"`
}

// RawLocation is the source record for a Location.
type RawLocation struct {
	ID   int64  `yaml:"id" json:"id" validate:"gt=0"`
	Name string `yaml:"name" json:"name" validate:"required"`
}

// RawApplication is the source record for an Application.
type RawApplication struct {
	ID         int64  `yaml:"id" json:"id" validate:"gt=0"`
	Name       string `yaml:"name" json:"name" validate:"required"`
	Type       string `yaml:"type" json:"type"`
	LocationID int64  `yaml:"location_id" json:"location_id" validate:"gt=0"`
}

// RawModule is the source record for a Module.
type RawModule struct {
	ID            int64  `yaml:"id" json:"id" validate:"gt=0"`
	Name          string `yaml:"name" json:"name" validate:"required"`
	Type          string `yaml:"type" json:"type"`
	ApplicationID int64  `yaml:"application_id" json:"application_id" validate:"gt=0"`
}

// RawInstrumentation is the source record for an Instrumentation.
type RawInstrumentation struct {
	ID             int64    `yaml:"id" json:"id" validate:"gt=0"`
	Name           string   `yaml:"tag" json:"tag" validate:"required"`
	Type           string   `yaml:"type" json:"type"`
	ValueKey       string   `yaml:"value_key" json:"value_key"`
	LowerThreshold *float64 `yaml:"lower_threshold" json:"lower_threshold,omitempty"`
	UpperThreshold *float64 `yaml:"upper_threshold" json:"upper_threshold,omitempty"`
	ModuleID       int64    `yaml:"module_id" json:"module_id" validate:"gt=0"`
}

// RawAsset is the source record for an Asset.
type RawAsset struct {
	ID                int64  `yaml:"id" json:"id" validate:"gt=0"`
	Serial            string `yaml:"serial" json:"serial" validate:"required"`
	ProductCode       string `yaml:"prod_code" json:"prod_code"`
	ProductName       string `yaml:"prod_name" json:"prod_name"`
	InstrumentationID int64  `yaml:"instrumentation_id" json:"instrumentation_id" validate:"gt=0"`
}

// rawValidate checks field-level rules on raw records. Field names in its
// errors follow the yaml tags so problems point at the source document.
var rawValidate *validator.Validate

func init() {
	rawValidate = validator.New()
	rawValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateRaw returns one problem line per failed field rule.
func validateRaw(raw RawData) []string {
	err := rawValidate.Struct(raw)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "RawData.applications[1].location_id"; drop the type.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		problems = append(problems, fmt.Sprintf("%s: failed %s", path, rule))
	}
	return problems
}
