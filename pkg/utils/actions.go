package utils

import (
	"strconv"
	"strings"
)

// Action is one entry of a vendor actions array.
type Action struct {
	Type  string
	Value string
}

// conversionActionTypes is the canonical set of action types counted as
// conversions. Extending the set is a configuration change, not a code path.
var conversionActionTypes = map[string]bool{
	"lead":                  true,
	"purchase":              true,
	"complete_registration": true,
	"submit_application":    true,
	"subscribe":             true,
	"start_trial":           true,
}

// customConversionPrefixes recognize vendor-defined custom conversion events.
var customConversionPrefixes = []string{
	"offsite_conversion.custom.",
	"offsite_conversion.fb_pixel_custom",
	"onsite_conversion.lead_grouped",
}

// IsConversionAction reports whether the action type counts toward the
// canonical conversion total.
func IsConversionAction(actionType string) bool {
	if conversionActionTypes[actionType] {
		return true
	}
	for _, prefix := range customConversionPrefixes {
		if strings.HasPrefix(actionType, prefix) {
			return true
		}
	}
	return false
}

// ParseActions sums the canonical conversion count from an actions array.
// Values are parsed as bounded integers; negatives and unparsable entries are
// discarded, and unrecognized action types are ignored.
func ParseActions(actions []Action) float64 {
	var total float64

	for _, action := range actions {
		if !IsConversionAction(action.Type) {
			continue
		}

		value, err := strconv.ParseInt(strings.TrimSpace(action.Value), 10, 32)
		if err != nil || value < 0 {
			continue
		}

		total += float64(value)
	}

	return total
}
