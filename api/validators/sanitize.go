package validators

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/scanpos/pkg/errors"
)

// MaxCodeLength bounds product codes accepted from the wire.
const MaxCodeLength = 64

// ParseCode trims a product code taken from a path parameter. Empty and
// over-long codes are validation errors; a code is never shortened.
func ParseCode(input string) (string, error) {
	code := strings.TrimSpace(input)
	if code == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if len(code) > MaxCodeLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("code must be at most %d characters", MaxCodeLength))
	}
	return code, nil
}
