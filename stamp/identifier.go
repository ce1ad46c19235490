package stamp

import "fmt"

// Identifier returns the join key of a page: "{project}-{page}" with the
// 1-based page number zero-padded to 3 digits.
// Numbers above 999 keep all their digits ("PRJ-1000").
func Identifier(project string, page int) string {
	return fmt.Sprintf("%s-%03d", project, page)
}
