// Package conv 提供类型转换、map/slice 转换等泛型工具，用于简化配置构建中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ToString 将 any 转为 string。
// 仅支持 string 类型，否则返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ConfigGet 从配置 map 中取 key 对应的 T 类型值，缺失或类型不符时返回 def。
func ConfigGet[T any](m map[string]interface{}, key string, def T) T {
	if m == nil {
		return def
	}
	v, ok := m[key]
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

// ConfigGetInt64 从配置 map 中取整数值（yaml/json 解码可能给出 int 或 float64）。
func ConfigGetInt64(m map[string]interface{}, key string, def int64) int64 {
	if m == nil {
		return def
	}
	if n, ok := ToInt(m[key]); ok {
		return int64(n)
	}
	return def
}

// ConfigGetFloat64 从配置 map 中取浮点值（yaml/json 解码可能给出 int 或 float64）。
func ConfigGetFloat64(m map[string]interface{}, key string, def float64) float64 {
	if m == nil {
		return def
	}
	if f, ok := ToFloat64(m[key]); ok {
		return f
	}
	return def
}

// SliceAnyToString 将 []interface{} 转为 []string，非字符串条目被跳过。
func SliceAnyToString(v any) []string {
	if v == nil {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		if ss, ok := v.([]string); ok {
			return ss
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
