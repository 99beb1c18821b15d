package service

import (
	"math/rand"
	"sync"
)

// ChartData is the chart-ready series snapshot returned by the chart
// data endpoint. Shapes follow the ECharts option model.
type ChartData struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	XAxis    *Axis    `json:"xAxis,omitempty"`
	YAxis    *Axis    `json:"yAxis,omitempty"`
	Series   []Series `json:"series"`
	Legend   *Legend  `json:"legend,omitempty"`
}

type Axis struct {
	Type string   `json:"type"`
	Data []string `json:"data,omitempty"`
	Name string   `json:"name,omitempty"`
}

type Series struct {
	Name string    `json:"name"`
	Type string    `json:"type"`
	Data []float64 `json:"data"`
}

type Legend struct {
	Data []string `json:"data"`
}

// ChartService generates random demo series data. It is stateless
// between requests; only the injected random source is shared.
type ChartService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewChartService creates a chart data generator
func NewChartService(rng *rand.Rand) *ChartService {
	return &ChartService{rng: rng}
}

// FetchData returns one complete series snapshot for the chart type.
// Unknown types fall back to the line chart.
func (s *ChartService) FetchData(chartType string) ChartData {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch chartType {
	case "bar":
		return s.barChartData()
	case "pie":
		return s.pieChartData()
	case "scatter":
		return s.scatterChartData()
	default:
		return s.lineChartData()
	}
}

func (s *ChartService) lineChartData() ChartData {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	temperatures := s.randomSeries(12, 10, 30)
	rainfall := s.randomSeries(12, 0, 100)

	return ChartData{
		Title:  "Monthly Temperature and Rainfall",
		XAxis:  &Axis{Type: "category", Data: months},
		YAxis:  &Axis{Type: "value", Name: "Temperature (°C)"},
		Series: []Series{
			{Name: "Temperature", Type: "line", Data: temperatures},
			{Name: "Rainfall", Type: "line", Data: rainfall},
		},
		Legend: &Legend{Data: []string{"Temperature", "Rainfall"}},
	}
}

func (s *ChartService) barChartData() ChartData {
	countries := []string{"USA", "China", "India", "Indonesia", "Brazil", "Pakistan", "Nigeria", "Bangladesh", "Russia", "Mexico"}
	population := s.randomSeries(10, 100, 1400)

	return ChartData{
		Title:  "Population by Country (Millions)",
		XAxis:  &Axis{Type: "category", Data: countries},
		YAxis:  &Axis{Type: "value"},
		Series: []Series{{Name: "Population", Type: "bar", Data: population}},
	}
}

func (s *ChartService) pieChartData() ChartData {
	sources := []string{"Coal", "Natural Gas", "Nuclear", "Hydro", "Wind", "Solar", "Other Renewables"}
	consumption := s.randomSeries(7, 5, 30)

	return ChartData{
		Title:  "Energy Consumption by Source",
		Series: []Series{{Name: "Energy Source", Type: "pie", Data: consumption}},
		Legend: &Legend{Data: sources},
	}
}

func (s *ChartService) scatterChartData() ChartData {
	gdp := s.randomSeries(10, 10000, 70000)

	return ChartData{
		Title:  "GDP vs Life Expectancy",
		XAxis:  &Axis{Type: "value", Name: "GDP per Capita ($)"},
		YAxis:  &Axis{Type: "value", Name: "Life Expectancy (years)"},
		Series: []Series{{Name: "Countries", Type: "scatter", Data: gdp}},
	}
}

func (s *ChartService) randomSeries(n int, min, max float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = min + s.rng.Float64()*(max-min)
	}
	return data
}
