package config

import "sort"

var Presets = map[string]map[string]*Config{
	MethodSeries: {
		"kilo":  {Method: MethodSeries, Digits: 1000},
		"mega":  {Method: MethodSeries, Digits: 10000},
		"quick": {Method: MethodSeries, Digits: 100},
	},
	MethodMonteCarlo: {
		"quick":    {Method: MethodMonteCarlo, Samples: 100_000},
		"standard": {Method: MethodMonteCarlo, Samples: 1_000_000},
		"precise":  {Method: MethodMonteCarlo, Samples: 100_000_000},
	},
}

// Tiers are the precision choices offered by the interactive menu.
var Tiers = []int{1000, 10000}

func GetPreset(method, preset string) *Config {
	methodPresets, ok := Presets[method]
	if !ok {
		return nil
	}
	cfg, ok := methodPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(method string) []string {
	methodPresets, ok := Presets[method]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(methodPresets))
	for name := range methodPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
