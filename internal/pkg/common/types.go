package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SurveyInput 收禮人問卷
type SurveyInput struct {
	Relationship   string     `json:"relationship"`
	Age            FlexString `json:"age"`
	Gender         string     `json:"gender"`
	Occasion       string     `json:"occasion"`
	Interests      []string   `json:"interests"`
	Personality    []string   `json:"personality"`
	Budget         Budget     `json:"budget"`
	AdditionalInfo string     `json:"additionalInfo,omitempty"`
}

// Candidate 正規化後的禮物候選
type Candidate struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Category         string  `json:"category"`
	Reason           string  `json:"reason"`
	ImageSearchQuery string  `json:"imageSearchQuery"`
}

// EnrichedGift 附上圖片與目錄比對結果的推薦禮物
type EnrichedGift struct {
	Candidate
	ImageURL       string `json:"imageUrl"`
	IsCatalogMatch bool   `json:"isCatalogMatch"`
}

// Product 商品目錄項目
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Reviews     *int     `json:"reviews,omitempty"`
}

// FlexString 可接受字串或數字的欄位（例如年齡、價格）
type FlexString string

// UnmarshalJSON 實作 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// String 實作 fmt.Stringer
func (f FlexString) String() string {
	return string(f)
}

// Budget 預算上限，接受數字或陣列（取第一個元素）
type Budget float64

// UnmarshalJSON 實作 json.Unmarshaler
func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var values []FlexString
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		if len(values) == 0 {
			*b = 0
			return nil
		}
		return b.parse(string(values[0]))
	}

	var value FlexString
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return b.parse(string(value))
}

func (b *Budget) parse(s string) error {
	if s == "" {
		*b = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid budget %q", s)
	}
	*b = Budget(v)
	return nil
}

// String 以不帶多餘小數的格式輸出
func (b Budget) String() string {
	return strconv.FormatFloat(float64(b), 'f', -1, 64)
}
