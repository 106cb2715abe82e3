package cli

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planka/pkg/model"
)

// queryFlags narrow and order a collection before it is printed.
type queryFlags struct {
	where   []string
	expr    string
	fields  []string
	orderBy string
	desc    bool
	take    int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&q.where, "where", nil, "keep items whose field equals value (field=value, repeatable)")
	cmd.Flags().StringVar(&q.expr, "expr", "", `keep items matching a boolean expression, e.g. 'position > 2 && name startsWith "A"'`)
	cmd.Flags().StringSliceVar(&q.fields, "fields", nil, "fields to print")
	cmd.Flags().StringVar(&q.orderBy, "order-by", "", "field to order by")
	cmd.Flags().BoolVar(&q.desc, "desc", false, "order descending")
	cmd.Flags().IntVar(&q.take, "take", -1, "print at most n items")
}

func (q *queryFlags) filter() (model.SchemaFilter, error) {
	if len(q.where) == 0 {
		return nil, nil
	}
	filter := model.SchemaFilter{}
	for _, w := range q.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("--where expects field=value, got %q", w)
		}
		filter[field] = parseValue(value)
	}
	return filter, nil
}

// apply runs the filters, ordering and limit in that order.
func (q *queryFlags) apply(c *model.Collection, logger hclog.Logger) (*model.Collection, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	if filter != nil {
		c = c.Where(filter)
	}
	if q.expr != "" {
		pred, err := model.Expr(q.expr, model.ExprWithLogger(logger))
		if err != nil {
			return nil, err
		}
		c = c.Select(pred)
	}
	if q.orderBy != "" {
		c = c.OrderBy(q.orderBy, q.desc)
	}
	if q.take >= 0 {
		c = c.Take(q.take)
	}
	return c, nil
}

// printCollection applies q to c and prints the result.
func printCollection(cmd *cobra.Command, s *session, q *queryFlags, c *model.Collection) error {
	p, err := newPrinter(cmd.OutOrStdout(), q.fields)
	if err != nil {
		return err
	}
	c, err = q.apply(c, s.logger)
	if err != nil {
		return err
	}
	return p.Collection(c)
}
