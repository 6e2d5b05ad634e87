// Package firstassign implements the first-assignment promotion pass
// (spec §4.3): a single forward walk that rewrites the first Assign to an
// as-yet-undeclared name into a Declare, so that a function written
// without an explicit "let" on first use still produces a well-formed
// declare-before-use HIR stream for the scope checker. Grounded on the
// pass ordering in the pony-lang original's semantic/analysis.rs
// (transform_first_assignment_into_declaration runs immediately after
// build_name_registry) and shares undeclared_vars.rs's scope-cloning
// idiom for If branches.
package firstassign

import "vesper/internal/hir"

// Promote rewrites first-assignments into declarations throughout stmts.
func Promote(stmts []hir.Stmt) []hir.Stmt {
	return promoteBlock(stmts, map[string]bool{})
}

func promoteBlock(stmts []hir.Stmt, declared map[string]bool) []hir.Stmt {
	out := make([]hir.Stmt, len(stmts))
	for i, s := range stmts {
		switch v := s.(type) {
		case hir.Declare:
			declared[v.Var.Name] = true
			out[i] = v

		case hir.Assign:
			if len(v.Path) == 1 && !declared[v.Path[0]] {
				declared[v.Path[0]] = true
				out[i] = hir.Declare{
					Var:        hir.TypedName{Name: v.Path[0], Type: hir.PendingType{}},
					Expression: v.Expression,
				}
				continue
			}
			out[i] = v

		case hir.If:
			out[i] = hir.If{
				Condition: v.Condition,
				True:      promoteBlock(v.True, cloneScope(declared)),
				False:     promoteBlock(v.False, cloneScope(declared)),
			}

		case hir.DeclareFunction:
			fnScope := make(map[string]bool, len(v.Params))
			for _, p := range v.Params {
				fnScope[p.Name] = true
			}
			promoted := v
			promoted.Body = promoteBlock(v.Body, fnScope)
			out[i] = promoted

		default:
			out[i] = s
		}
	}
	return out
}

func cloneScope(declared map[string]bool) map[string]bool {
	c := make(map[string]bool, len(declared))
	for k := range declared {
		c[k] = true
	}
	return c
}
