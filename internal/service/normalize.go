package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDecimal 数字或字符串都收，统一成 decimal；空串视为缺省
func ParseDecimal(v any) (*decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		d := decimal.NewFromFloat(x)
		return &d, nil
	case int:
		d := decimal.NewFromInt(int64(x))
		return &d, nil
	case int64:
		d := decimal.NewFromInt(x)
		return &d, nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return nil, err
		}
		return &d, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	case decimal.Decimal:
		return &x, nil
	default:
		return nil, fmt.Errorf("unsupported numeric value %T", v)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseFlexTime 宽松解析日期字符串；解析失败按缺失处理（返回 nil）
func ParseFlexTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
