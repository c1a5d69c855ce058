package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/pkg/util"
)

// deriveSlug slugifies name and appends -2, -3, ... until exists reports a free value.
// Names with no ASCII content fall back to a random token.
func deriveSlug(name string, maxLen int, exists func(string) (bool, error)) (string, error) {
	base := util.Slugify(name)
	if base == "" {
		base = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if len(base) > maxLen-8 {
		base = strings.Trim(base[:maxLen-8], "-_")
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken && !repository.LooksLikeUUID(candidate) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
