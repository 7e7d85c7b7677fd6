package job

import "strings"

// NotSpecifiedLocation is shown when a posting carries no location data.
const NotSpecifiedLocation = "Not specified"

// FormatLocation renders the human-readable location used by listings.
//
//	Remote            → "Remote (Worldwide)"
//	Hybrid            → "Berlin, Germany, Hybrid (EU Only)"
//	On-site           → "Berlin, Germany"
//	nothing known     → "Not specified"
func FormatLocation(j *Job) string {
	if loc := LocationText(j); loc != "" {
		return loc
	}
	return NotSpecifiedLocation
}

// LocationText is FormatLocation built from the posting's own data only:
// it is "" instead of the placeholder when nothing is known.
func LocationText(j *Job) string {
	var parts []string
	if j.WorkplaceCity != nil && *j.WorkplaceCity != "" {
		parts = append(parts, *j.WorkplaceCity)
	}
	if j.WorkplaceCountry != nil && *j.WorkplaceCountry != "" {
		parts = append(parts, *j.WorkplaceCountry)
	}
	place := strings.Join(parts, ", ")

	region := ""
	if j.RemoteRegion != nil {
		region = string(*j.RemoteRegion)
	}

	switch j.WorkplaceType {
	case WorkplaceRemote:
		if region == "" {
			region = string(RegionWorldwide)
		}
		return "Remote (" + region + ")"
	case WorkplaceHybrid:
		hybrid := "Hybrid"
		if region != "" {
			hybrid += " (" + region + ")"
		}
		if place == "" {
			return hybrid
		}
		return place + ", " + hybrid
	}

	if place != "" {
		return place
	}
	return j.LegacyLocation
}
