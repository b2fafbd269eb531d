// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package snapshot

// Kind identifies a tracked entity kind.
type Kind string

// Tracked entity kinds, in declaration order.
const (
	KindCategory Kind = "category"
	KindProduct  Kind = "product"
	KindCustomer Kind = "customer"
	KindSale     Kind = "sale"
	KindCredit   Kind = "credit"
	KindProfit   Kind = "profit"
	KindActivity Kind = "activity"
	KindUser     Kind = "user"
)

// ColumnType tells the store how to bind and scan a column.
type ColumnType int

// Column types.
const (
	TypeText ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTimestamp
	TypeJSON
)

// Column describes one persisted field of a kind.
type Column struct {
	Name string
	Type ColumnType

	// Default is used when a legacy snapshot row lacks the field.
	// nil means the column is nullable and stays NULL.
	Default any
}

// KindSpec is the registry entry for a tracked kind.
type KindSpec struct {
	Kind    Kind
	WireKey string
	Table   string
	Columns []Column
	Parents []Kind

	// Restorable kinds are deleted and re-inserted by restore.
	// Users are snapshotted as a summary projection only.
	Restorable bool

	// DeleteFirst kinds are cleared ahead of other kinds at the same depth.
	DeleteFirst bool
}

// IDColumn, CreatedAtColumn and UpdatedAtColumn are preserved verbatim on restore.
const (
	IDColumn        = "id"
	CreatedAtColumn = "createdAt"
	UpdatedAtColumn = "updatedAt"
)

func timestamps() []Column {
	return []Column{
		{Name: CreatedAtColumn, Type: TypeTimestamp},
		{Name: UpdatedAtColumn, Type: TypeTimestamp},
	}
}

func withID(cols ...Column) []Column {
	return append([]Column{{Name: IDColumn, Type: TypeText}}, cols...)
}

var registry = []KindSpec{
	{
		Kind: KindCategory, WireKey: "categories", Table: "categories", Restorable: true,
		Columns: append(withID(
			Column{Name: "name", Type: TypeText, Default: ""},
			Column{Name: "description", Type: TypeText},
		), timestamps()...),
	},
	{
		Kind: KindProduct, WireKey: "products", Table: "products", Restorable: true,
		Parents: []Kind{KindCategory},
		Columns: append(withID(
			Column{Name: "name", Type: TypeText, Default: ""},
			Column{Name: "sku", Type: TypeText},
			Column{Name: "barcode", Type: TypeText},
			Column{Name: "description", Type: TypeText},
			Column{Name: "price", Type: TypeFloat, Default: 0.0},
			Column{Name: "costPrice", Type: TypeFloat, Default: 0.0},
			Column{Name: "stock", Type: TypeInt, Default: int64(0)},
			Column{Name: "minStock", Type: TypeInt, Default: int64(0)},
			Column{Name: "categoryId", Type: TypeText},
			Column{Name: "imageUrl", Type: TypeText},
		), timestamps()...),
	},
	{
		Kind: KindCustomer, WireKey: "customers", Table: "customers", Restorable: true,
		Columns: append(withID(
			Column{Name: "name", Type: TypeText, Default: ""},
			Column{Name: "email", Type: TypeText},
			Column{Name: "phone", Type: TypeText},
			Column{Name: "address", Type: TypeText},
		), timestamps()...),
	},
	{
		Kind: KindSale, WireKey: "sales", Table: "sales", Restorable: true,
		Parents: []Kind{KindCustomer, KindProduct},
		Columns: append(withID(
			Column{Name: "customerId", Type: TypeText},
			Column{Name: "productId", Type: TypeText},
			Column{Name: "quantity", Type: TypeInt, Default: int64(1)},
			Column{Name: "unitPrice", Type: TypeFloat, Default: 0.0},
			Column{Name: "total", Type: TypeFloat, Default: 0.0},
			Column{Name: "paymentMethod", Type: TypeText},
			Column{Name: "userId", Type: TypeText},
		), timestamps()...),
	},
	{
		Kind: KindCredit, WireKey: "credits", Table: "credits", Restorable: true,
		Parents: []Kind{KindCustomer},
		Columns: append(withID(
			Column{Name: "customerId", Type: TypeText},
			Column{Name: "amount", Type: TypeFloat, Default: 0.0},
			Column{Name: "type", Type: TypeText},
			Column{Name: "description", Type: TypeText},
			Column{Name: "dueDate", Type: TypeTimestamp},
			Column{Name: "paid", Type: TypeBool, Default: false},
		), timestamps()...),
	},
	{
		Kind: KindProfit, WireKey: "profits", Table: "profits", Restorable: true,
		Columns: append(withID(
			Column{Name: "amount", Type: TypeFloat, Default: 0.0},
			Column{Name: "description", Type: TypeText},
			Column{Name: "date", Type: TypeTimestamp},
		), timestamps()...),
	},
	{
		Kind: KindActivity, WireKey: "activities", Table: "activities", Restorable: true, DeleteFirst: true,
		Columns: withID(
			Column{Name: "userId", Type: TypeText},
			Column{Name: "userName", Type: TypeText},
			Column{Name: "action", Type: TypeText, Default: ""},
			Column{Name: "entityType", Type: TypeText},
			Column{Name: "entityId", Type: TypeText},
			Column{Name: "description", Type: TypeText},
			Column{Name: "metadata", Type: TypeJSON},
			Column{Name: CreatedAtColumn, Type: TypeTimestamp},
		),
	},
	{
		Kind: KindUser, WireKey: "users", Table: "users",
		Columns: append(withID(
			Column{Name: "name", Type: TypeText},
			Column{Name: "email", Type: TypeText},
			Column{Name: "role", Type: TypeText},
		), timestamps()...),
	},
}

var (
	byKind    = make(map[Kind]KindSpec, len(registry))
	byWireKey = make(map[string]KindSpec, len(registry))
)

//nolint:gochecknoinits // registry indexes are derived once
func init() {
	for _, spec := range registry {
		byKind[spec.Kind] = spec
		byWireKey[spec.WireKey] = spec
	}
}

// Kinds returns every tracked kind spec in declaration order.
func Kinds() []KindSpec {
	out := make([]KindSpec, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the spec for k.
func Lookup(k Kind) (KindSpec, bool) {
	spec, ok := byKind[k]
	return spec, ok
}

// LookupWireKey returns the spec whose document key is key (e.g. "products").
func LookupWireKey(key string) (KindSpec, bool) {
	spec, ok := byWireKey[key]
	return spec, ok
}

// ColumnNames returns the spec's column names in declaration order.
func (s KindSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
