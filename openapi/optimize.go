package openapi

import "sort"

// schemaPropCap: schemas carrying more than maxSchemaProps properties are
// cut down to keepSchemaProps during budget reduction.
const (
	maxSchemaProps  = 10
	keepSchemaProps = 5
)

// OptimizeForTokenLimit reduces a compressed document until its token
// estimate fits maxTokens, applying progressively lossier stages and
// returning as soon as one lands under budget:
//
//  1. no-op when already within budget
//  2. strip every description field
//  3. cap oversized schemas to their first properties
//  4. re-admit paths by priority until 90% of the budget is filled
//
// The token estimate never increases across stages. If the fully reduced
// document still exceeds the budget, the maximally reduced version is
// returned rather than an error.
func OptimizeForTokenLimit(c *Compressed, maxTokens int) *Compressed {
	if c.EstimatedTokens <= maxTokens {
		return c
	}

	out := c.Clone()

	stripDescriptions(out)
	out.Recalculate()
	if out.EstimatedTokens <= maxTokens {
		return out
	}

	capSchemas(out)
	out.Recalculate()
	if out.EstimatedTokens <= maxTokens {
		return out
	}

	admitPathsByPriority(out, maxTokens)
	return out
}

// stripDescriptions removes the document description, operation summaries,
// parameter descriptions, and response summaries.
func stripDescriptions(c *Compressed) {
	c.Description = ""
	for i := range c.Paths {
		for j := range c.Paths[i].Operations {
			op := &c.Paths[i].Operations[j]
			op.Summary = ""
			for k := range op.Parameters {
				op.Parameters[k].Description = ""
			}
			for status := range op.Responses {
				op.Responses[status] = ""
			}
		}
	}
}

// capSchemas trims any schema holding more than maxSchemaProps properties
// down to its first keepSchemaProps, recursively. Property order follows the
// sorted key order, which is also the serialisation order.
func capSchemas(c *Compressed) {
	for _, s := range c.Schemas {
		capSchema(s)
	}
	for i := range c.Paths {
		for j := range c.Paths[i].Operations {
			capSchema(c.Paths[i].Operations[j].RequestBody)
		}
	}
}

func capSchema(s *Schema) {
	if s == nil {
		return
	}
	if len(s.Properties) > maxSchemaProps {
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		kept := make(map[string]*Schema, keepSchemaProps)
		for _, name := range names[:keepSchemaProps] {
			kept[name] = s.Properties[name]
		}
		s.Properties = kept
	}
	for _, prop := range s.Properties {
		capSchema(prop)
	}
	capSchema(s.Items)
}

// pathPriority scores a path: +2 per GET operation, +1 per non-GET
// operation, +1 per operation carrying an operation id.
func pathPriority(p PathEntry) int {
	score := 0
	for _, op := range p.Operations {
		if op.Method == "GET" {
			score += 2
		} else {
			score++
		}
		if op.OperationID != "" {
			score++
		}
	}
	return score
}

// admitPathsByPriority sorts paths by descending priority and greedily
// re-admits them until the running token estimate would exceed 90% of
// maxTokens. The result may still exceed the budget when even the path-free
// skeleton is too large; that is accepted.
func admitPathsByPriority(c *Compressed, maxTokens int) {
	candidates := make([]PathEntry, len(c.Paths))
	copy(candidates, c.Paths)
	sort.SliceStable(candidates, func(i, j int) bool {
		return pathPriority(candidates[i]) > pathPriority(candidates[j])
	})

	floor := maxTokens * 9 / 10

	c.Paths = nil
	c.Recalculate()
	for _, cand := range candidates {
		c.Paths = append(c.Paths, cand)
		c.Recalculate()
		if c.EstimatedTokens > floor {
			c.Paths = c.Paths[:len(c.Paths)-1]
			c.Recalculate()
			break
		}
	}
}
