package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"survivalvolume/domain/grid"
)

// StudyGeneratorConfig configures the synthetic study generator
type StudyGeneratorConfig struct {
	GroupCount          int     `json:"group_count"`
	IndividualsPerGroup int     `json:"individuals_per_group"`
	Timepoints          int     `json:"timepoints"`
	StartVolume         float64 `json:"start_volume"`
	GrowthRate          float64 `json:"growth_rate"` // mean fractional growth per measurement
	Endpoint            float64 `json:"endpoint"`    // individuals leave the study after exceeding this
	Seed                int64   `json:"seed"`
}

// DefaultStudyConfig returns a four-group, twice-weekly study
func DefaultStudyConfig() StudyGeneratorConfig {
	return StudyGeneratorConfig{
		GroupCount:          4,
		IndividualsPerGroup: 8,
		Timepoints:          12,
		StartVolume:         200,
		GrowthRate:          0.15,
		Endpoint:            700,
		Seed:                42,
	}
}

// StudyGroup is one generated group: per-individual volume series on a
// shared day schedule, truncated once the endpoint is passed.
type StudyGroup struct {
	Name        string
	Days        []float64
	Individuals []string
	Volumes     [][]float64 // [individual][timepoint], NaN after leaving the study
}

// StudyGenerator produces reproducible tumour growth studies
type StudyGenerator struct {
	config StudyGeneratorConfig
	rng    *rand.Rand
}

// NewStudyGenerator creates a generator seeded from config
func NewStudyGenerator(config StudyGeneratorConfig) *StudyGenerator {
	return &StudyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateGroups generates every group of the study
func (g *StudyGenerator) GenerateGroups() []StudyGroup {
	days := make([]float64, g.config.Timepoints)
	for t := range days {
		// twice weekly: 1, 4, 8, 11, ...
		days[t] = 1 + float64(t/2)*7
		if t%2 == 1 {
			days[t] += 3
		}
	}
	groups := make([]StudyGroup, 0, g.config.GroupCount)
	for i := 0; i < g.config.GroupCount; i++ {
		// Later groups respond better to treatment
		rate := g.config.GrowthRate * (1 - float64(i)/float64(g.config.GroupCount+1))
		groups = append(groups, g.generateGroup(fmt.Sprintf("Group %d", i+1), days, rate))
	}
	return groups
}

func (g *StudyGenerator) generateGroup(name string, days []float64, rate float64) StudyGroup {
	group := StudyGroup{Name: name, Days: days}
	for n := 0; n < g.config.IndividualsPerGroup; n++ {
		group.Individuals = append(group.Individuals, fmt.Sprintf("%s-%02d", shortName(name), n+1))

		volumes := make([]float64, len(days))
		v := g.config.StartVolume * (0.8 + 0.4*g.rng.Float64())
		left := false
		for t := range days {
			if left {
				volumes[t] = math.NaN()
				continue
			}
			volumes[t] = math.Round(v*100) / 100
			if v > g.config.Endpoint {
				left = true
			}
			v *= 1 + rate + 0.1*g.rng.NormFloat64()
			if v < 1 {
				v = 1
			}
		}
		group.Volumes = append(group.Volumes, volumes)
	}
	return group
}

// PrismGrid lays the groups out as a Prism export sheet
func (g *StudyGenerator) PrismGrid(groups []StudyGroup) grid.Grid {
	width := g.config.IndividualsPerGroup + 3
	blank := func() []interface{} { return make([]interface{}, width) }
	line := func(values ...interface{}) []grid.Cell {
		row := blank()
		copy(row, values)
		return Row(row...)
	}

	rows := [][]grid.Cell{
		line("Generated study"),
		line(),
		line("Tumor Volume (All Animals)"),
		line(),
		line("Tumor Volume (All Animals)"),
	}
	for _, group := range groups {
		rows = append(rows, line(nil, group.Name))

		header := []interface{}{nil, "Day"}
		for _, id := range group.Individuals {
			header = append(header, id)
		}
		rows = append(rows, line(append(header, "Mean")...))

		for t, day := range group.Days {
			values := []interface{}{nil, day}
			var sum float64
			var n int
			for i := range group.Individuals {
				v := group.Volumes[i][t]
				values = append(values, v)
				if !math.IsNaN(v) {
					sum += v
					n++
				}
			}
			mean := math.NaN()
			if n > 0 {
				mean = sum / float64(n)
			}
			rows = append(rows, line(append(values, mean)...))
		}
		rows = append(rows, line())
	}
	rows = append(rows, line(), line("Scatterplot information for Prism"))
	return grid.New(rows)
}

// AbsoluteGrid lays the groups out as an Absolute TV export sheet with the
// header on row 5
func (g *StudyGenerator) AbsoluteGrid(groups []StudyGroup) grid.Grid {
	rows := [][]grid.Cell{
		Row("Generated study"),
		Row("Task: Tumor Volume (mm_)"),
		Row("Absolute Values"),
		Row(),
		Row(),
	}
	if len(groups) == 0 {
		return grid.New(append(rows, Row("Group", "Animal ID", "Study Days\nData Type")))
	}

	header := []interface{}{"Group", "Animal ID", "Study Days\nData Type"}
	for _, day := range groups[0].Days {
		header = append(header, day)
	}
	rows = append(rows, Row(header...))

	// Interleave groups so the cleaner has to sort them
	for i := 0; i < g.config.IndividualsPerGroup; i++ {
		for _, group := range groups {
			values := []interface{}{group.Name, group.Individuals[i], "Abs"}
			for _, v := range group.Volumes[i] {
				values = append(values, v)
			}
			rows = append(rows, Row(values...))
		}
	}
	return grid.New(rows)
}

func shortName(name string) string {
	var out []rune
	for _, r := range name {
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}
