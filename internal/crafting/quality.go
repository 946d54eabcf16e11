package crafting

import (
	"fmt"
	"strings"
)

// Quality is a craftsmanship rank. The zero value is the lowest rank.
type Quality int

const (
	QualityMakeshift Quality = iota
	QualityCrude
	QualityCommon
	QualityUncommon
	QualityRare
	QualityEpic
	QualityLegendary
)

var qualityNames = [...]string{
	QualityMakeshift: "makeshift",
	QualityCrude:     "crude",
	QualityCommon:    "common",
	QualityUncommon:  "uncommon",
	QualityRare:      "rare",
	QualityEpic:      "epic",
	QualityLegendary: "legendary",
}

func AllQualities() []Quality {
	out := make([]Quality, 0, len(qualityNames))
	for q := QualityMakeshift; q <= QualityLegendary; q++ {
		out = append(out, q)
	}
	return out
}

func (q Quality) Valid() bool {
	return q >= QualityMakeshift && q <= QualityLegendary
}

func (q Quality) String() string {
	if !q.Valid() {
		return fmt.Sprintf("quality(%d)", int(q))
	}
	return qualityNames[q]
}

func (q Quality) AtLeast(floor Quality) bool {
	return q >= floor
}

func ParseQuality(raw string) (Quality, error) {
	n := strings.ToLower(strings.TrimSpace(raw))
	for q, name := range qualityNames {
		if name == n {
			return Quality(q), nil
		}
	}
	return 0, fmt.Errorf("unknown quality: %q", raw)
}

// qualityFromRank clamps a computed rank onto the defined tiers.
func qualityFromRank(rank int) Quality {
	switch {
	case rank <= int(QualityMakeshift):
		return QualityMakeshift
	case rank >= int(QualityLegendary):
		return QualityLegendary
	default:
		return Quality(rank)
	}
}
