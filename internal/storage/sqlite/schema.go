package sqlite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
)

type column struct {
	field model.Field
	name  string
}

// computed is a read-only value derived from other tables.
type computed struct {
	key  string
	expr string
}

type table struct {
	kind     entity.Kind
	name     string
	byStore  bool
	readOnly bool
	columns  []column
	computed []computed
}

var tableNames = map[entity.Kind]string{
	entity.KindStore:     "stores",
	entity.KindSettings:  "stores",
	entity.KindBillboard: "billboards",
	entity.KindCategory:  "categories",
	entity.KindSize:      "sizes",
	entity.KindColor:     "colors",
	entity.KindProduct:   "products",
	entity.KindOrder:     "orders",
}

var orderComputed = []computed{
	{
		key: "products",
		expr: `COALESCE((SELECT group_concat(p.name, ', ') FROM order_items oi
		  JOIN products p ON p.id = oi.product_id WHERE oi.order_id = orders.id), '')`,
	},
	{
		key: "totalPrice",
		expr: `COALESCE((SELECT SUM(p.price) FROM order_items oi
		  JOIN products p ON p.id = oi.product_id WHERE oi.order_id = orders.id), 0)`,
	},
}

func (s *Store) table(kind entity.Kind) (table, error) {
	name, ok := tableNames[kind]
	if !ok {
		return table{}, fmt.Errorf("%w: %s", entity.ErrUnknownKind, kind)
	}
	def, err := s.catalog.Get(kind)
	if err != nil {
		return table{}, err
	}
	t := table{
		kind:     kind,
		name:     name,
		byStore:  name != "stores",
		readOnly: def.ReadOnly,
	}
	for _, field := range def.Form.Fields {
		t.columns = append(t.columns, column{field: field, name: model.ColumnName(field.Name)})
	}
	if kind == entity.KindOrder {
		t.computed = orderComputed
	}
	return t, nil
}

// scope returns the WHERE clause and arguments matching one record.
func (t table) scope(storeID, id string) (string, []any) {
	if t.byStore {
		return "id = ? AND store_id = ?", []any{id, storeID}
	}
	return "id = ?", []any{id}
}

func (t table) selectSQL(where string) string {
	cols := make([]string, 0, len(t.columns)+len(t.computed)+3)
	cols = append(cols, "id")
	for _, col := range t.columns {
		cols = append(cols, col.name)
	}
	cols = append(cols, "created_at", "updated_at")
	for _, c := range t.computed {
		cols = append(cols, c.expr)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + t.name + " WHERE " + where
}

type scanner interface {
	Scan(dest ...any) error
}

func (t table) scan(row scanner) (model.Record, error) {
	var (
		id                   string
		createdAt, updatedAt int64
	)
	raw := make([]any, len(t.columns)+len(t.computed))
	dest := make([]any, 0, len(raw)+3)
	dest = append(dest, &id)
	for i := range t.columns {
		dest = append(dest, &raw[i])
	}
	dest = append(dest, &createdAt, &updatedAt)
	for i := range t.computed {
		dest = append(dest, &raw[len(t.columns)+i])
	}
	if err := row.Scan(dest...); err != nil {
		return model.Record{}, err
	}

	rec := model.Record{
		ID:        id,
		Values:    make(map[string]any, len(raw)),
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}
	for i, col := range t.columns {
		rec.Values[col.field.Name] = fromColumn(col.field.Type, raw[i])
	}
	for i, c := range t.computed {
		value := raw[len(t.columns)+i]
		if c.key == "totalPrice" {
			rec.Values[c.key] = toFloat(value)
			continue
		}
		rec.Values[c.key] = toString(value)
	}
	return rec, nil
}

// toColumn converts a form value into the SQLite representation.
func toColumn(fieldType model.FieldType, value any) any {
	switch fieldType {
	case model.FieldTypeBoolean:
		if b, ok := value.(bool); ok && b {
			return int64(1)
		}
		return int64(0)
	case model.FieldTypeNumber:
		return toFloat(value)
	case model.FieldTypeInteger:
		return int64(toFloat(value))
	default:
		return toString(value)
	}
}

func fromColumn(fieldType model.FieldType, value any) any {
	switch fieldType {
	case model.FieldTypeBoolean:
		return toFloat(value) != 0
	case model.FieldTypeNumber:
		return toFloat(value)
	case model.FieldTypeInteger:
		return int64(toFloat(value))
	default:
		return toString(value)
	}
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	default:
		return 0
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
