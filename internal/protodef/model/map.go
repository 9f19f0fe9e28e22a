package model

import "sort"

// FlattenMap 请求体中一层的 key/value，用于 PATCH 字段白名单。
type FlattenMap map[string]interface{}

func (f FlattenMap) Filter(fields ...string) FlattenMap {
	var newMap = make(map[string]interface{})
	for _, field := range fields {
		if val, ok := f[field]; ok {
			newMap[field] = val
		}
	}
	return newMap
}

func (f FlattenMap) Exclude(fields ...string) FlattenMap {
	hash := make(map[string]interface{})
	for _, v := range fields {
		hash[v] = 1
	}
	for k := range f {
		if _, ok := hash[k]; ok {
			delete(f, k)
		}
	}
	return f
}

// Disallowed 返回不在 allowed 中的key，按字典序。
func (f FlattenMap) Disallowed(allowed ...string) []string {
	hash := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		hash[v] = struct{}{}
	}
	res := make([]string, 0)
	for k := range f {
		if _, ok := hash[k]; !ok {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res
}
