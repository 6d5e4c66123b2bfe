package geocode

import (
	"sort"
	"strings"
)

// centroid is an approximate country or region center, good enough for
// transport-distance bucketing.
type centroid struct {
	lat, lon float64
}

var centroids = map[string]centroid{
	"united states":  {39.8, -98.6},
	"usa":            {39.8, -98.6},
	"us":             {39.8, -98.6},
	"america":        {39.8, -98.6},
	"canada":         {56.1, -106.3},
	"mexico":         {23.6, -102.5},
	"brazil":         {-14.2, -51.9},
	"united kingdom": {54.0, -2.0},
	"uk":             {54.0, -2.0},
	"england":        {52.4, -1.5},
	"ireland":        {53.4, -8.2},
	"france":         {46.6, 2.2},
	"germany":        {51.2, 10.4},
	"italy":          {42.8, 12.8},
	"spain":          {40.5, -3.7},
	"portugal":       {39.4, -8.2},
	"netherlands":    {52.1, 5.3},
	"belgium":        {50.6, 4.7},
	"switzerland":    {46.8, 8.2},
	"austria":        {47.6, 14.1},
	"poland":         {51.9, 19.1},
	"sweden":         {62.2, 17.6},
	"norway":         {64.6, 12.7},
	"denmark":        {56.0, 9.5},
	"finland":        {64.5, 26.0},
	"greece":         {39.1, 21.8},
	"turkey":         {39.0, 35.2},
	"russia":         {61.5, 105.3},
	"china":          {35.9, 104.2},
	"japan":          {36.2, 138.3},
	"south korea":    {35.9, 127.8},
	"korea":          {35.9, 127.8},
	"taiwan":         {23.7, 121.0},
	"india":          {20.6, 79.0},
	"pakistan":       {30.4, 69.3},
	"bangladesh":     {23.7, 90.4},
	"vietnam":        {14.1, 108.3},
	"thailand":       {15.9, 101.0},
	"indonesia":      {-0.8, 113.9},
	"malaysia":       {4.2, 101.9},
	"philippines":    {12.9, 121.8},
	"singapore":      {1.35, 103.8},
	"australia":      {-25.3, 133.8},
	"new zealand":    {-40.9, 174.9},
	"south africa":   {-30.6, 22.9},
	"egypt":          {26.8, 30.8},
	"morocco":        {31.8, -7.1},
	"israel":         {31.0, 34.9},
	"uae":            {23.4, 53.8},
	"argentina":      {-38.4, -63.6},
	"chile":          {-35.7, -71.5},
	"colombia":       {4.6, -74.3},
	"peru":           {-9.2, -75.0},
}

// centroidNames holds the table keys in sorted order so the loose
// fallback below resolves the same way on every run.
var centroidNames = func() []string {
	names := make([]string, 0, len(centroids))
	for name := range centroids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// Lookup returns the centroid for a known country or region name.
func Lookup(place string) (lat, lon float64, ok bool) {
	key := strings.ToLower(strings.TrimSpace(place))
	if c, found := centroids[key]; found {
		return c.lat, c.lon, true
	}
	// Loose fallback: a longer phrase like "guangdong, china" still resolves
	// to its country.
	for _, name := range centroidNames {
		if len(name) > 3 && strings.Contains(key, name) {
			c := centroids[name]
			return c.lat, c.lon, true
		}
	}
	return 0, 0, false
}

// Known reports whether a place resolves against the built-in table.
func Known(place string) bool {
	_, _, ok := Lookup(place)
	return ok
}
