package stamp

import "strconv"

// FormatLabel composes the text stamped on a page.
// Without a record the quantity segment and its leading space are omitted.
func FormatLabel(prefix, identifier string, rec Record, found bool) string {
	if !found {
		return prefix + identifier
	}
	return prefix + identifier + " Qty: " + strconv.Itoa(rec.Quantity)
}
