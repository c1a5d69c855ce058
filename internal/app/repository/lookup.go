package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lookup is a path token resolved to either an ID or a slug.
type Lookup struct {
	Token string
	ID    uuid.UUID
	ByID  bool
	// Invalid is set for UUID-shaped tokens that do not parse. They match nothing.
	Invalid bool
}

// LooksLikeUUID reports whether token has the canonical 8-4-4-4-12 shape.
func LooksLikeUUID(token string) bool {
	if len(token) != 36 {
		return false
	}
	for _, i := range []int{8, 13, 18, 23} {
		if token[i] != '-' {
			return false
		}
	}
	return true
}

// ParseLookup decides whether token is an identifier or a slug.
func ParseLookup(token string) Lookup {
	token = strings.TrimSpace(token)
	if !LooksLikeUUID(token) {
		return Lookup{Token: token}
	}
	id, err := uuid.Parse(token)
	if err != nil {
		return Lookup{Token: token, ByID: true, Invalid: true}
	}
	return Lookup{Token: token, ID: id, ByID: true}
}

func applyLookup(q *gorm.DB, table string, l Lookup) *gorm.DB {
	switch {
	case l.Invalid:
		return q.Where("1 = 0")
	case l.ByID:
		return q.Where(table+".id = ?", l.ID)
	default:
		return q.Where(table+".slug = ?", l.Token)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern for a substring match.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// Page slices a result set.
type Page struct {
	Limit  int
	Offset int
}

func applyPage(q *gorm.DB, p Page) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
