package decl

// Children returns the direct child nodes of n in evaluation order.
func Children(n Node) (out []Node) {
	switch node := n.(type) {
	case *LetDecl:
		if node.Initializer != nil {
			out = append(out, node.Initializer)
		}
	case *FuncDecl:
		for _, s := range node.Body {
			out = append(out, s)
		}
	case *ClassDecl:
		for _, m := range node.Methods {
			out = append(out, m)
		}
	case *ExprStmt:
		out = append(out, node.Expression)
	case *ReturnStmt:
		if node.Value != nil {
			out = append(out, node.Value)
		}
	case *BlockStmt:
		for _, s := range node.Statements {
			out = append(out, s)
		}
	case *IfStmt:
		out = append(out, node.Condition, node.Then)
		if node.Else != nil {
			out = append(out, node.Else)
		}
	case *AssignExpr:
		out = append(out, node.Value)
	case *BinaryExpr:
		out = append(out, node.Left, node.Right)
	case *CallExpr:
		out = append(out, node.Callee)
		for _, a := range node.Arguments {
			out = append(out, a)
		}
	case *GroupingExpr:
		out = append(out, node.Expression)
	case *CaseExpr:
		out = append(out, node.Scrutinee)
		for _, arm := range node.Arms {
			out = append(out, arm)
		}
	case *CaseArm:
		out = append(out, node.Pattern, node.Body)
	}
	return
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the children of that node.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}

// WalkProgram walks every top level declaration in order.
func WalkProgram(p *Program, visit func(Node) bool) {
	for _, d := range p.Declarations {
		Walk(d, visit)
	}
}

// NodeAtLine returns the first node, in pre-order, whose first token starts
// on the given line.
func NodeAtLine(p *Program, line int) (found Node) {
	WalkProgram(p, func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Pos().Line == line {
			found = n
			return false
		}
		return n.Pos().Line <= line
	})
	return
}

// NodeAt returns the most specific node whose range contains line:col.
func NodeAt(p *Program, line, col int) (found Node) {
	loc := Location{Line: line, Col: col}
	WalkProgram(p, func(n Node) bool {
		if !n.Range().Contains(loc) {
			return false
		}
		found = n
		return true
	})
	return
}
