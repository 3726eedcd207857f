package weather

import "github.com/agrichain/agrichain/internal/profiles"

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IndiaCentre is the last-resort location.
var IndiaCentre = Coordinate{Lat: 20.5937, Lon: 78.9629}

var stateCentres = map[string]Coordinate{
	"Andhra Pradesh":    {15.9129, 79.7400},
	"Arunachal Pradesh": {28.2180, 94.7278},
	"Assam":             {26.2006, 92.9376},
	"Bihar":             {25.0961, 85.3131},
	"Chhattisgarh":      {21.2787, 81.8661},
	"Delhi":             {28.7041, 77.1025},
	"Goa":               {15.2993, 74.1240},
	"Gujarat":           {22.2587, 71.1924},
	"Haryana":           {29.0588, 76.0856},
	"Himachal Pradesh":  {31.1048, 77.1734},
	"Jammu And Kashmir": {33.7782, 76.5762},
	"Jharkhand":         {23.6102, 85.2799},
	"Karnataka":         {15.3173, 75.7139},
	"Kerala":            {10.8505, 76.2711},
	"Madhya Pradesh":    {22.9734, 78.6569},
	"Maharashtra":       {19.7515, 75.7139},
	"Manipur":           {24.6637, 93.9063},
	"Meghalaya":         {25.4670, 91.3662},
	"Mizoram":           {23.1645, 92.9376},
	"Nagaland":          {26.1584, 94.5624},
	"Odisha":            {20.9517, 85.0985},
	"Punjab":            {31.1471, 75.3412},
	"Rajasthan":         {27.0238, 74.2179},
	"Sikkim":            {27.5330, 88.5122},
	"Tamil Nadu":        {11.1271, 78.6569},
	"Telangana":         {18.1124, 79.0193},
	"Tripura":           {23.9408, 91.9882},
	"Uttar Pradesh":     {26.8467, 80.9462},
	"Uttarakhand":       {30.0668, 79.0193},
	"West Bengal":       {22.9868, 87.8550},
}

// StateCentre returns the centre of a state, or the centre of India when unknown.
func StateCentre(state string) (Coordinate, bool) {
	if c, ok := stateCentres[profiles.Normalize(state)]; ok {
		return c, true
	}
	return IndiaCentre, false
}
