package pkg

import (
	"strconv"
	"strings"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// ParseID converts an external identifier of the named entity into a
// primary key. Anything other than a positive decimal integer cannot name
// a stored record, so it is reported as "<entity> not found".
func ParseID(raw, entity string) (uint, error) {
	s := strings.TrimSpace(raw)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewAppError(domain.CodeNotFound, entity+" not found", err)
	}
	return uint(id), nil
}

// FormatID renders a primary key as an external identifier.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
