package shopping

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealmate/internal/logger"
)

// numberedBullet detects lines that begin with a numeric bullet;
// bulletMarker strips every digit-dot marker once a line qualifies.
var (
	numberedBullet = regexp.MustCompile(`^\d+\.`)
	bulletMarker   = regexp.MustCompile(`\d+\.`)
)

// ParseSections folds the AI's sectioning response into a map of
// normalized ingredient name to store section. A line naming a known
// section alongside a colon switches the current section; bullet lines
// ("- ..." or "1. ...") record the current section for the ingredient
// they name. Everything else is ignored, and a blank response yields an
// empty map, never an error — callers default unmapped items to Other.
func ParseSections(response string) map[string]string {
	sectionMap := make(map[string]string)
	if strings.TrimSpace(response) == "" {
		return sectionMap
	}

	currentSection := SectionOther
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)

		if section, ok := sectionHeader(line); ok {
			currentSection = section
			continue
		}

		if strings.HasPrefix(line, "-") || numberedBullet.MatchString(line) {
			name := strings.TrimPrefix(line, "-")
			name = bulletMarker.ReplaceAllString(name, "")
			name = strings.TrimSpace(name)
			if i := strings.Index(name, "("); i >= 0 {
				name = name[:i]
			}
			name = strings.TrimSpace(strings.ToLower(name))
			if name != "" {
				sectionMap[name] = currentSection
			}
		}
	}
	return sectionMap
}

// sectionHeader reports whether the line switches the current section.
// Sections are checked in declaration order; the first name appearing
// in the line together with a colon wins.
func sectionHeader(line string) (string, bool) {
	if !strings.Contains(line, ":") {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, section := range Sections {
		if strings.Contains(lower, strings.ToLower(section)) {
			return section, true
		}
	}
	return "", false
}

// ParseOptimizedItems parses the cost-optimization response. Each line
// of the form
//
//	Item: <name> | Quantity: <q> | Price: $<amount> | Section: <s> | Notes: <n>
//
// becomes one Item; malformed lines are skipped with a warning. A price
// that fails to parse leaves EstimatedPrice nil without dropping the item.
func ParseOptimizedItems(response string) []Item {
	var items []Item
	for _, line := range strings.Split(response, "\n") {
		if !strings.HasPrefix(line, "Item:") || !strings.Contains(line, "|") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			logger.Warn("skipping malformed optimization line", zap.String("line", line))
			continue
		}

		item := Item{
			ID:             uuid.NewString(),
			IngredientName: strings.TrimSpace(textAfter(parts[0], "Item:")),
			Quantity:       strings.TrimSpace(textAfter(parts[1], "Quantity:")),
			Section:        strings.TrimSpace(textAfter(parts[3], "Section:")),
		}
		if len(parts) > 4 {
			item.Notes = strings.TrimSpace(textAfter(parts[4], "Notes:"))
		}

		priceStr := strings.TrimSpace(textAfter(parts[2], "Price: $"))
		if price, err := strconv.ParseFloat(priceStr, 64); err == nil {
			item.EstimatedPrice = &price
		}

		items = append(items, item)
	}
	return items
}

// parseAvailableNames extracts candidate ingredient names from an
// availability scan response of "name | quantity | freshness" lines.
func parseAvailableNames(analysis string) []string {
	var names []string
	for _, line := range strings.Split(analysis, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// textAfter returns the substring following the first occurrence of
// sep, or s unchanged when sep is absent.
func textAfter(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}
