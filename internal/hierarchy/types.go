package hierarchy

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold normalizes a string for case-insensitive comparison. Full Unicode
// case folding is used so names such as "Straße" and "STRASSE" compare equal.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// --- Application type enum ---

// ApplicationType categorizes what an application does with water.
type ApplicationType string

const (
	AppWaterAbstraction  ApplicationType = "water_abstraction"
	AppWaterDistribution ApplicationType = "water_distribution"
	AppEffluentDischarge ApplicationType = "effluent_discharge"
	AppOther             ApplicationType = "other"
)

// ApplicationTypes lists the recognized application types.
var ApplicationTypes = []ApplicationType{
	AppWaterAbstraction, AppWaterDistribution, AppEffluentDischarge, AppOther,
}

// NormalizeApplicationType maps raw input to a known type. Unrecognized
// values map to AppOther.
func NormalizeApplicationType(s string) ApplicationType {
	key := fold(s)
	for _, t := range ApplicationTypes {
		if key == string(t) {
			return t
		}
	}
	return AppOther
}

// --- Module type enum ---

// ModuleType categorizes the role of a module within an application.
type ModuleType string

const (
	ModSource         ModuleType = "source"
	ModStorage        ModuleType = "storage"
	ModTransfer       ModuleType = "transfer"
	ModQualityControl ModuleType = "quality_control"
	ModOther          ModuleType = "other"
)

// ModuleTypes lists the recognized module types.
var ModuleTypes = []ModuleType{
	ModSource, ModStorage, ModTransfer, ModQualityControl, ModOther,
}

// NormalizeModuleType maps raw input to a known type. The "_module" suffix
// used by the plant export ("source_module") is ignored and unrecognized
// values map to ModOther.
func NormalizeModuleType(s string) ModuleType {
	key := strings.TrimSuffix(fold(s), "_module")
	key = strings.ReplaceAll(key, " ", "_")
	for _, t := range ModuleTypes {
		if key == string(t) {
			return t
		}
	}
	return ModOther
}

// --- Instrument type enum ---

// InstrumentType is the measurement category of an instrumentation.
type InstrumentType string

const (
	InstFlow     InstrumentType = "Flow"
	InstPressure InstrumentType = "Pressure"
	InstAnalysis InstrumentType = "Analysis"
	InstPump     InstrumentType = "Pump"
	InstVoltage  InstrumentType = "Voltage"
	InstLevel    InstrumentType = "Level"
	InstOther    InstrumentType = "other"
)

// InstrumentTypes lists the recognized instrument types.
var InstrumentTypes = []InstrumentType{
	InstFlow, InstPressure, InstAnalysis, InstPump, InstVoltage, InstLevel, InstOther,
}

// ParseInstrumentType matches s case-insensitively against the recognized
// instrument types. Unlike the load-time normalizers it never falls back
// to InstOther: a query for an unknown type is a ValidationError.
func ParseInstrumentType(s string) (InstrumentType, error) {
	key := fold(s)
	for _, t := range InstrumentTypes {
		if key == fold(string(t)) {
			return t, nil
		}
	}
	allowed := make([]string, len(InstrumentTypes))
	for i, t := range InstrumentTypes {
		allowed[i] = string(t)
	}
	return "", newValidationError("instrument_type", s, allowed)
}

// NormalizeInstrumentType is the load-time counterpart of
// ParseInstrumentType: unrecognized values map to InstOther.
func NormalizeInstrumentType(s string) InstrumentType {
	t, err := ParseInstrumentType(s)
	if err != nil {
		return InstOther
	}
	return t
}
