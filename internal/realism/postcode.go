package realism

import "strings"

// defaultPostcodeRegions maps UK postcode-area prefixes to the region names
// used in the geographic benchmark table. Lookup is longest-prefix against
// the outward code, so "SW1A" resolves through the "SW1" entry.
func defaultPostcodeRegions() map[string]string {
	return map[string]string{
		// London
		"EC": "London", "WC": "London", "E1": "London", "N1": "London",
		"NW1": "London", "SE1": "London", "SW1": "London", "W1": "London",
		// South East
		"BN": "South East", "GU": "South East", "OX": "South East",
		"RG": "South East", "SO": "South East", "CT": "South East",
		// North West
		"M1": "North West", "M2": "North West", "M3": "North West",
		"L1": "North West", "L2": "North West", "PR": "North West",
		"WA": "North West",
		// West Midlands
		"B1": "West Midlands", "B2": "West Midlands", "B3": "West Midlands",
		"CV": "West Midlands", "WV": "West Midlands",
		// Yorkshire
		"LS1": "Yorkshire", "LS2": "Yorkshire", "S1": "Yorkshire",
		"HU": "Yorkshire", "BD": "Yorkshire",
		// Scotland
		"G1": "Scotland", "G2": "Scotland", "EH1": "Scotland",
		"EH2": "Scotland", "AB": "Scotland", "DD": "Scotland",
		// East
		"CB": "East", "CO": "East", "IP": "East", "NR": "East",
		// South West
		"BS1": "South West", "BS2": "South West", "EX": "South West",
		"PL": "South West", "TA": "South West",
		// East Midlands
		"NG": "East Midlands", "LE": "East Midlands", "DE": "East Midlands",
		// Wales
		"CF10": "Wales", "CF11": "Wales", "LL": "Wales", "SA": "Wales",
		// North East
		"NE1": "North East", "SR": "North East", "TS": "North East",
	}
}

// RegionForPostcode resolves a free-form UK postcode to a benchmark region
// using the longest matching area prefix. The second return is false when no
// prefix matches; such rows are excluded from the geography category rather
// than scored as a miss.
func RegionForPostcode(postcode string, regions map[string]string) (string, bool) {
	outward := strings.ToUpper(strings.TrimSpace(postcode))
	if i := strings.IndexByte(outward, ' '); i >= 0 {
		outward = outward[:i]
	}
	if outward == "" {
		return "", false
	}

	for end := len(outward); end > 0; end-- {
		if region, ok := regions[outward[:end]]; ok {
			return region, true
		}
	}
	return "", false
}
