package postgres

import (
	"reflect"
	"sync"
)

// structMeta is the flattened "db"-tag layout of a struct type.
// Embedded structs are walked once and their fields addressed by index
// path, so per-row conversion does no tag parsing.
type structMeta struct {
	cols  []string
	paths [][]int
}

var metaCache sync.Map // map[reflect.Type]*structMeta

func getStructMeta(t reflect.Type) *structMeta {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := metaCache.Load(t); ok {
		return cached.(*structMeta)
	}

	meta := &structMeta{}
	if t.Kind() == reflect.Struct {
		collectFields(t, nil, meta)
	}

	metaCache.Store(t, meta)
	return meta
}

func collectFields(t reflect.Type, prefix []int, meta *structMeta) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		// Embedded pointers are not followed: FieldByIndex cannot
		// traverse a nil pointer, and no entity embeds one.
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(field.Type, path, meta)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		meta.cols = append(meta.cols, tag)
		meta.paths = append(meta.paths, path)
	}
}

// ExtractDBColumns extracts all column names from struct "db" tags,
// embedded structs included. Called once at repo construction; the
// reflection cost does not matter there.
func ExtractDBColumns[T any]() []string {
	var zero T
	meta := getStructMeta(reflect.TypeOf(zero))
	return append([]string(nil), meta.cols...)
}

// StructToMap converts a struct to a column->value map using "db" tags.
// Fields without a tag or tagged "-" are skipped.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := getStructMeta(rv.Type())
	res := make(map[string]any, len(meta.cols))
	for i, col := range meta.cols {
		res[col] = rv.FieldByIndex(meta.paths[i]).Interface()
	}
	return res
}
