package hierarchy

import "math"

// Summary counts entities per kind.
type Summary struct {
	Locations        int `json:"locations"`
	Applications     int `json:"applications"`
	Modules          int `json:"modules"`
	Instrumentations int `json:"instrumentations"`
	Assets           int `json:"assets"`
}

// Total returns the number of entities across all kinds.
func (s Summary) Total() int {
	return s.Locations + s.Applications + s.Modules + s.Instrumentations + s.Assets
}

// ThresholdCoverage partitions instrumentations by which thresholds they
// carry. Inverted counts pairs with lower > upper; such pairs still count
// under Both.
type ThresholdCoverage struct {
	Both      int `json:"both"`
	LowerOnly int `json:"lower_only"`
	UpperOnly int `json:"upper_only"`
	Neither   int `json:"neither"`
	Inverted  int `json:"inverted"`
}

// Total returns the number of instrumentations counted.
func (c ThresholdCoverage) Total() int {
	return c.Both + c.LowerOnly + c.UpperOnly + c.Neither
}

// Percent returns the share of instrumentations with at least one
// threshold, rounded to one decimal. It is 0 when there are none.
func (c ThresholdCoverage) Percent() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	p := float64(total-c.Neither) * 100 / float64(total)
	return math.Round(p*10) / 10
}

// Statistics is the detailed aggregate view of a hierarchy.
type Statistics struct {
	Summary
	TotalEntities        int                     `json:"total"`
	InstrumentTypes      map[InstrumentType]int  `json:"instrument_types"`
	ApplicationTypes     map[ApplicationType]int `json:"application_types"`
	ModuleTypes          map[ModuleType]int      `json:"module_types"`
	InstrumentsPerModule map[int64]int           `json:"instruments_per_module"`
	Thresholds           ThresholdCoverage       `json:"thresholds"`
	ThresholdCoverage    float64                 `json:"threshold_coverage_percent"`
}

// Summary returns entity counts per kind.
func (s *Store) Summary() Summary {
	return Summary{
		Locations:        s.Count(KindLocation),
		Applications:     s.Count(KindApplication),
		Modules:          s.Count(KindModule),
		Instrumentations: s.Count(KindInstrumentation),
		Assets:           s.Count(KindAsset),
	}
}

// DistributionByType counts instrumentations per instrument type. Only
// types that occur appear in the map.
func (s *Store) DistributionByType() map[InstrumentType]int {
	out := make(map[InstrumentType]int)
	for _, inst := range s.instrumentations {
		out[inst.Type]++
	}
	return out
}

// DistributionByModule counts instrumentations per owning module. Every
// module appears, including modules without instrumentation.
func (s *Store) DistributionByModule() map[int64]int {
	out := make(map[int64]int, len(s.modules))
	for id := range s.modules {
		out[id] = 0
	}
	for _, inst := range s.instrumentations {
		out[inst.ModuleID]++
	}
	return out
}

// ThresholdCoverage classifies every instrumentation by its thresholds.
func (s *Store) ThresholdCoverage() ThresholdCoverage {
	var c ThresholdCoverage
	for _, inst := range s.instrumentations {
		switch {
		case inst.HasBoth():
			c.Both++
			if *inst.LowerThreshold > *inst.UpperThreshold {
				c.Inverted++
			}
		case inst.HasLower():
			c.LowerOnly++
		case inst.HasUpper():
			c.UpperOnly++
		default:
			c.Neither++
		}
	}
	return c
}

// DetailedStatistics combines every aggregate with the application and
// module type distributions.
func (s *Store) DetailedStatistics() Statistics {
	summary := s.Summary()
	appTypes := make(map[ApplicationType]int)
	for _, a := range s.applications {
		appTypes[a.Type]++
	}
	modTypes := make(map[ModuleType]int)
	for _, m := range s.modules {
		modTypes[m.Type]++
	}
	coverage := s.ThresholdCoverage()
	return Statistics{
		Summary:              summary,
		TotalEntities:        summary.Total(),
		InstrumentTypes:      s.DistributionByType(),
		ApplicationTypes:     appTypes,
		ModuleTypes:          modTypes,
		InstrumentsPerModule: s.DistributionByModule(),
		Thresholds:           coverage,
		ThresholdCoverage:    coverage.Percent(),
	}
}
