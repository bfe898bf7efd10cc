package recommendation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"gift-recommender/internal/pkg/common"
)

const (
	defaultName     = "Unknown Gift"
	defaultCategory = "Misc"
	idPrefix        = "gemini_gift_"
)

// Normalize 將模型輸出的單筆資料轉為完整的 Candidate，任何輸入都不會失敗
func Normalize(raw any, index int) common.Candidate {
	fields, _ := raw.(map[string]any)

	name := textField(fields, "name")
	if name == "" {
		name = defaultName
	}
	category := textField(fields, "category")
	if category == "" {
		category = defaultCategory
	}

	query := textField(fields, "imageSearchQuery")
	if query == "" {
		query = strings.TrimSpace(fmt.Sprintf("%s %s gift", name, category))
	}

	hashSource := "gift"
	if s, ok := fields["name"].(string); ok && s != "" {
		hashSource = s
	}

	return common.Candidate{
		ID:               fmt.Sprintf("%s%d-%d", idPrefix, index, hashCode(hashSource)),
		Name:             name,
		Description:      textField(fields, "description"),
		Price:            priceField(fields),
		Category:         category,
		Reason:           textField(fields, "reason"),
		ImageSearchQuery: query,
	}
}

// textField 非字串值視為不存在
func textField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

// priceField 接受數字或數字字串，其餘為 0
func priceField(fields map[string]any) float64 {
	raw, ok := fields["approximatePrice"]
	if !ok {
		raw = fields["price"]
	}

	switch v := raw.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// hashCode 32 位元多項式雜湊（h*31 + c），以 UTF-16 code unit 計算並溢位回 int32
func hashCode(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	return h
}
