package report

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"inventory-service/internal/inventory"

	"gorm.io/gorm"
)

// Filter selects the products of a report. Empty id sets and nil bounds
// impose no restriction. A filter that was not Submitted is the initial
// load and matches nothing.
type Filter struct {
	CategoryIDs []uint   `json:"category_ids"`
	SupplierIDs []uint   `json:"supplier_ids"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	Submitted   bool     `json:"submitted"`
}

// reportParams are the form keys whose presence, even blank, marks a submitted report.
var reportParams = []string{"category", "supplier", "min_price", "max_price"}

// Active reports whether any dimension of the filter is in use.
func (f Filter) Active() bool {
	return len(f.CategoryIDs) > 0 || len(f.SupplierIDs) > 0 || f.MinPrice != nil || f.MaxPrice != nil
}

// Op is the comparison of a predicate.
type Op int

const (
	OpIn Op = iota
	OpGTE
	OpLTE
)

// Predicate is one typed condition on a products column. Values are bound
// as parameters, never written into the SQL text.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// SQL returns the clause with its positional placeholder and the bound value.
func (p Predicate) SQL() (string, any) {
	switch p.Op {
	case OpIn:
		return p.Column + " IN ?", p.Value
	case OpGTE:
		return p.Column + " >= ?", p.Value
	case OpLTE:
		return p.Column + " <= ?", p.Value
	}
	panic(fmt.Sprintf("report: unknown predicate op %d", p.Op))
}

// Predicates compiles the filter into its conjunction of conditions in a
// fixed order: category, supplier, min price, max price.
func (f Filter) Predicates() []Predicate {
	var preds []Predicate
	if len(f.CategoryIDs) > 0 {
		preds = append(preds, Predicate{Column: "p.category_id", Op: OpIn, Value: f.CategoryIDs})
	}
	if len(f.SupplierIDs) > 0 {
		preds = append(preds, Predicate{Column: "p.supplier_id", Op: OpIn, Value: f.SupplierIDs})
	}
	if f.MinPrice != nil {
		preds = append(preds, Predicate{Column: "p.price", Op: OpGTE, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		preds = append(preds, Predicate{Column: "p.price", Op: OpLTE, Value: *f.MaxPrice})
	}
	return preds
}

// Scope applies the predicates to a query over "products AS p".
func Scope(preds []Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range preds {
			clause, value := p.SQL()
			db = db.Where(clause, value)
		}
		return db
	}
}

// ParseFilter reads a filter from form or query values: repeated "category"
// and "supplier" ids, and optional "min_price" and "max_price". Blank values
// are ignored. The filter counts as submitted when any of those keys is present.
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter
	var err error

	for _, key := range reportParams {
		if _, ok := values[key]; ok {
			f.Submitted = true
			break
		}
	}

	if f.CategoryIDs, err = parseIDs(values["category"], "category"); err != nil {
		return Filter{}, err
	}
	if f.SupplierIDs, err = parseIDs(values["supplier"], "supplier"); err != nil {
		return Filter{}, err
	}
	if f.MinPrice, err = parseBound(values.Get("min_price"), "min_price"); err != nil {
		return Filter{}, err
	}
	if f.MaxPrice, err = parseBound(values.Get("max_price"), "max_price"); err != nil {
		return Filter{}, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return Filter{}, &inventory.ValidationError{Field: "min_price", Message: "must not exceed max_price"}
	}
	return f, nil
}

func parseIDs(raw []string, field string) ([]uint, error) {
	var ids []uint
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseUint(s, 10, 0)
		if err != nil || id == 0 {
			return nil, &inventory.ValidationError{Field: field, Message: fmt.Sprintf("invalid id %q", s)}
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func parseBound(raw, field string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &inventory.ValidationError{Field: field, Message: fmt.Sprintf("invalid number %q", raw)}
	}
	return &v, nil
}
