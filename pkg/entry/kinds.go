package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// Protocol is a named fasting target.
type Protocol struct {
	Label string
	Hours int
}

// Protocols are the selectable targets for a new fast.
var Protocols = []Protocol{
	{Label: "16:8", Hours: 16},
	{Label: "18:6", Hours: 18},
	{Label: "20:4", Hours: 20},
	{Label: "OMAD", Hours: 23},
}

// DefaultProtocol is selected when none is given.
const DefaultProtocol = 16

// ParseProtocol accepts a label such as "18:6" or "omad", or a positive
// number of hours.
func ParseProtocol(v string) (int, error) {
	v = strings.TrimSpace(v)
	for _, p := range Protocols {
		if strings.EqualFold(p.Label, v) {
			return p.Hours, nil
		}
	}
	h, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(v), "h"))
	if err != nil || h <= 0 {
		return 0, fmt.Errorf("unknown protocol %q", v)
	}
	return h, nil
}

// ProtocolLabel names hours, falling back to "<n>h" for custom targets.
func ProtocolLabel(hours int) string {
	for _, p := range Protocols {
		if p.Hours == hours {
			return p.Label
		}
	}
	return fmt.Sprintf("%dh", hours)
}

// Meal categories.
const (
	Breakfast = "Breakfast"
	Lunch     = "Lunch"
	Dinner    = "Dinner"
	Snack     = "Snack"
	Drink     = "Drink"
)

// Categories lists the food categories in display order.
var Categories = []string{Breakfast, Lunch, Dinner, Snack, Drink}

// DefaultCategory is used for new food entries without a category.
const DefaultCategory = Breakfast

// ParseCategory matches v case-insensitively against Categories.
func ParseCategory(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultCategory, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(c, v) || strings.HasSuffix(strings.ToLower(v), " "+strings.ToLower(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", v)
}

// Water defaults, in fluid ounces.
const (
	DefaultWaterGoal    = 64
	FallbackWaterAmount = 8
	MaxWaterPreset      = 9999
)

// DefaultWaterPresets cannot be removed from the preset set.
var DefaultWaterPresets = []int{8, 16, 24}

// IsDefaultPreset reports whether v is one of DefaultWaterPresets.
func IsDefaultPreset(v int) bool {
	for _, p := range DefaultWaterPresets {
		if p == v {
			return true
		}
	}
	return false
}
