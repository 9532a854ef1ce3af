package domain

// Percent returns part/total as a whole percentage rounded half up, or 0
// when total is not positive.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}
