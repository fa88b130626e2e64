package store

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortField orders results by a logical field name.
type SortField struct {
	Field string
	Desc  bool
}

// Query filters, orders and limits a Find call. Field names are logical names from the
// collection's allow-list, never raw column names.
type Query struct {
	Eq    map[string]any
	In    map[string][]any
	Sort  []SortField
	Limit int
}

// Where returns a copy of q with an equality filter added.
func (q Query) Where(field string, value any) Query {
	eq := make(map[string]any, len(q.Eq)+1)
	for k, v := range q.Eq {
		eq[k] = v
	}
	eq[field] = value
	q.Eq = eq
	return q
}

// WhereIn returns a copy of q with a set membership filter added.
func (q Query) WhereIn(field string, values ...any) Query {
	in := make(map[string][]any, len(q.In)+1)
	for k, v := range q.In {
		in[k] = v
	}
	in[field] = values
	q.In = in
	return q
}

// OrderBy returns a copy of q with an additional sort key.
func (q Query) OrderBy(field string, desc bool) Query {
	sorts := make([]SortField, 0, len(q.Sort)+1)
	sorts = append(sorts, q.Sort...)
	q.Sort = append(sorts, SortField{Field: field, Desc: desc})
	return q
}

func (c *Collection[T]) apply(tx *gorm.DB, q Query, withOrder bool) (*gorm.DB, error) {
	for _, field := range sortedKeys(q.Eq) {
		column, err := c.column(field)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: q.Eq[field]})
	}

	for _, field := range sortedKeys(q.In) {
		column, err := c.column(field)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.IN{Column: clause.Column{Name: column}, Values: q.In[field]})
	}

	if !withOrder {
		return tx, nil
	}

	for _, sort := range q.Sort {
		column, err := c.column(sort.Field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Desc})
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx, nil
}

func (c *Collection[T]) column(field string) (string, error) {
	column, ok := c.fields[field]
	if !ok {
		return "", fmt.Errorf("%w %q in %s", ErrUnknownField, field, c.name)
	}
	return column, nil
}
