package ast

// Visit is called once per statement encountered during a Walk, in
// pre-order. Returning false skips that statement's children.
type Visit func(Stmt) bool

// Walk traverses stmts and everything nested beneath them (pipeline
// stages, compound bodies, case arms, subshells) in pre-order.
func Walk(stmts []Stmt, visit Visit) {
	for _, s := range stmts {
		walkStmt(s, visit)
	}
}

func walkStmt(s Stmt, visit Visit) {
	if s == nil || !visit(s) {
		return
	}
	switch n := s.(type) {
	case *Pipeline:
		Walk(n.Stages, visit)
	case *AndOr:
		walkStmt(n.Left, visit)
		walkStmt(n.Right, visit)
	case *Subshell:
		Walk(n.Body, visit)
	case *Group:
		Walk(n.Body, visit)
	case *If:
		for _, arm := range n.Arms {
			walkStmt(arm.Cond, visit)
			Walk(arm.Body, visit)
		}
		Walk(n.Else, visit)
	case *Loop:
		walkStmt(n.Cond, visit)
		Walk(n.Body, visit)
	case *For:
		Walk(n.Body, visit)
	case *CStyleFor:
		Walk(n.Body, visit)
	case *Case:
		for _, arm := range n.Arms {
			Walk(arm.Body, visit)
		}
	case *Function:
		Walk(n.Body, visit)
	case *Coproc:
		Walk(n.Body, visit)
	}
}

// WalkWords visits every Word attached to the statements reachable from
// stmts: assignment values, command names and arguments, for-in lists,
// case subjects and patterns, trap handlers, jump arguments, and
// redirection targets. It does not descend into the statement lists
// nested inside command/process substitution parts; callers that care
// about those inspect the CommandSubst/ProcessSubst part itself.
func WalkWords(stmts []Stmt, visit func(*Word)) {
	Walk(stmts, func(s Stmt) bool {
		switch n := s.(type) {
		case *Assignment:
			if n.Value != nil {
				visit(n.Value)
			}
			for _, w := range n.ArrayWords {
				visit(w)
			}
		case *Command:
			for _, a := range n.Assigns {
				if a.Value != nil {
					visit(a.Value)
				}
			}
			if n.Name != nil {
				visit(n.Name)
			}
			for _, w := range n.Args {
				visit(w)
			}
			visitRedirs(n.Redirs, visit)
		case *For:
			for _, w := range n.Words {
				visit(w)
			}
			visitRedirs(n.Redirs, visit)
		case *Case:
			if n.Subject != nil {
				visit(n.Subject)
			}
			for _, arm := range n.Arms {
				for _, p := range arm.Patterns {
					visit(p)
				}
			}
			visitRedirs(n.Redirs, visit)
		case *Trap:
			if n.Handler != nil {
				visit(n.Handler)
			}
		case *Jump:
			if n.Arg != nil {
				visit(n.Arg)
			}
		case *Subshell:
			visitRedirs(n.Redirs, visit)
		case *Group:
			visitRedirs(n.Redirs, visit)
		case *If:
			visitRedirs(n.Redirs, visit)
		case *Loop:
			visitRedirs(n.Redirs, visit)
		case *CStyleFor:
			visitRedirs(n.Redirs, visit)
		case *Function:
			visitRedirs(n.Redirs, visit)
		case *Coproc:
			visitRedirs(n.Redirs, visit)
		}
		return true
	})
}

func visitRedirs(redirs []*Redir, visit func(*Word)) {
	for _, r := range redirs {
		if r.Target != nil {
			visit(r.Target)
		}
	}
}
