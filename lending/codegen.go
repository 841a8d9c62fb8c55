package lending

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NextCode computes the next equipment code for a category prefix by scanning
// the existing codes: the highest numeric suffix on a matching code plus one,
// zero-padded to at least two digits. With no matching code the first result
// is <PREFIX>01. This is scan-and-compute, not a reserved counter; the unique
// index on code catches the rare concurrent-create collision.
func NextCode(prefix string, existing []string) string {
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(prefix) + `(\d+)$`)
	max := 0
	for _, code := range existing {
		m := re.FindStringSubmatch(strings.TrimSpace(code))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%02d", strings.ToUpper(prefix), max+1)
}
