package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// JSON 陣列擷取錯誤
var (
	ErrNoArrayStart       = errors.New("no '[' found in text")
	ErrUnbalancedBrackets = errors.New("no matching closing ']' found")
	ErrArrayParse         = errors.New("json array parse error")
	ErrNotAnArray         = errors.New("extracted json is not an array")
)

// ExtractJSONArray 從任意文字中找出第一個括號平衡的 [...] 並解析
func ExtractJSONArray(text string) ([]any, error) {
	start := strings.IndexByte(text, '[')
	if start == -1 {
		return nil, ErrNoArrayStart
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth != 0 {
			continue
		}

		var parsed any
		if err := ParseJSON(text[start:i+1], &parsed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArrayParse, err)
		}
		arr, ok := parsed.([]any)
		if !ok {
			return nil, ErrNotAnArray
		}
		return arr, nil
	}

	return nil, ErrUnbalancedBrackets
}

// ParseJSON 解析 JSON 字符串到結構體，不允許多餘資料
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體，不允許多餘資料
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

// StringSliceToString 將字符串切片轉換為逗號分隔的字符串
func StringSliceToString(slice []string) string {
	if len(slice) == 0 {
		return ""
	}
	return strings.Join(slice, ", ")
}
