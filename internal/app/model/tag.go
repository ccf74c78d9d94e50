package model

import (
	"fmt"
	"strings"
)

// TagDimension names one independent axis of item classification.
type TagDimension string

const (
	DimensionCategory TagDimension = "category"
	DimensionColor    TagDimension = "color"
	DimensionSeason   TagDimension = "season"
)

type Category string

const (
	CategoryDress   Category = "dress"
	CategoryTops    Category = "tops"
	CategoryOuter   Category = "outer"
	CategoryBottoms Category = "bottoms"
)

type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
	ColorBeige Color = "beige"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// Declaration order is the order exposed to clients.
var (
	Categories = []Category{CategoryDress, CategoryTops, CategoryOuter, CategoryBottoms}
	Colors     = []Color{ColorWhite, ColorBlack, ColorRed, ColorBlue, ColorBeige}
	Seasons    = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
)

// InvalidTagError reports a value outside its dimension's vocabulary.
type InvalidTagError struct {
	Dimension TagDimension
	Value     string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid %s tag %q", e.Dimension, e.Value)
}

func normalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func lookup[T ~string](dimension TagDimension, vocabulary []T, raw string) (T, error) {
	value := normalizeTag(raw)
	for _, v := range vocabulary {
		if string(v) == value {
			return v, nil
		}
	}
	return "", &InvalidTagError{Dimension: dimension, Value: raw}
}

func ParseCategory(raw string) (Category, error) {
	return lookup(DimensionCategory, Categories, raw)
}

func ParseColor(raw string) (Color, error) {
	return lookup(DimensionColor, Colors, raw)
}

func ParseSeason(raw string) (Season, error) {
	return lookup(DimensionSeason, Seasons, raw)
}

// ValidateTag checks raw against the vocabulary of dimension and returns
// its canonical string form.
func ValidateTag(dimension TagDimension, raw string) (string, error) {
	switch dimension {
	case DimensionCategory:
		v, err := ParseCategory(raw)
		return string(v), err
	case DimensionColor:
		v, err := ParseColor(raw)
		return string(v), err
	case DimensionSeason:
		v, err := ParseSeason(raw)
		return string(v), err
	default:
		return "", fmt.Errorf("unknown tag dimension %q", dimension)
	}
}

// ParseCategories validates every value, dropping duplicates while keeping
// first-seen order.
func ParseCategories(raw []string) ([]Category, error) {
	return parseList(raw, ParseCategory)
}

func ParseColors(raw []string) ([]Color, error) {
	return parseList(raw, ParseColor)
}

func ParseSeasons(raw []string) ([]Season, error) {
	return parseList(raw, ParseSeason)
}

func parseList[T ~string](raw []string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(raw))
	seen := make(map[T]struct{}, len(raw))
	for _, r := range raw {
		v, err := parse(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Vocabulary is the full set of valid tags per dimension.
type Vocabulary struct {
	Categories []Category `json:"categories"`
	Colors     []Color    `json:"colors"`
	Seasons    []Season   `json:"seasons"`
}

func TagVocabulary() Vocabulary {
	return Vocabulary{
		Categories: append([]Category(nil), Categories...),
		Colors:     append([]Color(nil), Colors...),
		Seasons:    append([]Season(nil), Seasons...),
	}
}
