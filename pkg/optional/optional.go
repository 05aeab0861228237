package optional

import "encoding/json"

// Field 区分 JSON 里的「缺省 / 显式 null / 有值」三态，稀疏 PATCH 用：
// 缺省不动，null 清空可空列，有值则更新。
type Field[T any] struct {
	Set   bool // 请求里出现过该键
	Valid bool // 值非 null
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(b, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
