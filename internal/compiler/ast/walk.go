package ast

import "fmt"

// Inspect traverses the tree rooted at node in depth-first order. It calls
// f(n) for each node; if f returns true, Inspect visits the children of n.
// Nil children are skipped. An unknown node type panics.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			Inspect(d, f)
		}

	// Declarations
	case *MotorDecl, *ServoDecl, *SensorDecl, *GPIODecl, *BusDecl, *NetDecl, *TopicDecl:
		// leaves
	case *LimitsDecl:
		for _, e := range n.Entries {
			Inspect(e, f)
		}
	case *LimitEntry:
		inspectExpr(n.Bound, f)
	case *TaskDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		inspectBlock(n.Body, f)
	case *Param:
		if n.Type != nil {
			Inspect(n.Type, f)
		}
	case *TypeRef:
	case *ScheduleDecl:
		inspectExpr(n.Frequency, f)
		inspectBlock(n.Body, f)
	case *EventDecl:
		inspectBlock(n.Handler, f)

	// Statements
	case *ExprStmt:
		inspectExpr(n.Expr, f)
	case *AssignStmt:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *IfStmt:
		inspectExpr(n.Cond, f)
		inspectBlock(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *BlockStmt:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *WaitStmt:
		inspectExpr(n.Duration, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)

	// Expressions
	case *NumberLit, *StringLit, *BoolLit, *Ident:
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *UnaryExpr:
		inspectExpr(n.Operand, f)
	case *CallExpr:
		inspectExpr(n.Callee, f)
		for _, a := range n.Args {
			inspectExpr(a, f)
		}
	case *MemberExpr:
		inspectExpr(n.Object, f)
	case *UnitExpr:
		if n.Value != nil {
			Inspect(n.Value, f)
		}

	default:
		panic(fmt.Sprintf("ast.Inspect: unexpected node type %T", n))
	}
}

func inspectExpr(e Expression, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectBlock(b *BlockStmt, f func(Node) bool) {
	if b != nil {
		Inspect(b, f)
	}
}

// TargetPath renders an assignment target as a dotted path ("m1.power").
// It returns "" for expressions that are not identifier/member chains.
func TargetPath(e Expression) string {
	switch t := e.(type) {
	case *Ident:
		return t.Name
	case *MemberExpr:
		obj := TargetPath(t.Object)
		if obj == "" {
			return ""
		}
		return obj + "." + t.Member
	}
	return ""
}
