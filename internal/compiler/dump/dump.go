// Package dump renders a syntax tree as YAML for tooling that cannot link
// against the Go AST.
package dump

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
)

// YAML writes prog as a single YAML document. Every node is a mapping whose
// first keys are kind and pos (line:column); field order is fixed so the
// output is stable across runs.
func YAML(w io.Writer, prog *ast.Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Node(prog)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Node converts an AST node into a yaml.v3 document node.
func Node(n ast.Node) *yaml.Node {
	m := &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}

	switch n := n.(type) {
	case *ast.Program:
		m.header("robot", n)
		m.str("name", n.Name)
		decls := seq()
		for _, d := range n.Decls {
			decls.Content = append(decls.Content, Node(d))
		}
		m.set("decls", decls)

	case *ast.MotorDecl:
		m.header("motor", n)
		m.str("name", n.Name)
		m.str("pin", n.Pin)
	case *ast.ServoDecl:
		m.header("servo", n)
		m.str("name", n.Name)
		m.str("pin", n.Pin)
	case *ast.SensorDecl:
		m.header("sensor", n)
		m.str("name", n.Name)
		m.str("pin", n.Pin)
		if n.Type != "" {
			m.str("type", n.Type)
		}
	case *ast.GPIODecl:
		m.header("gpio", n)
		m.str("name", n.Name)
		m.str("pin", n.Pin)
		m.str("mode", n.Mode.String())
	case *ast.BusDecl:
		m.header("bus", n)
		m.str("name", n.Name)
		m.str("bus", n.Kind.String())
		if n.HasAddress {
			m.num("address", strconv.Itoa(n.Address))
		}
	case *ast.NetDecl:
		m.header("net", n)
		m.str("protocol", n.Protocol)
		m.str("broker", n.Broker)
		if n.ClientID != "" {
			m.str("client_id", n.ClientID)
		}
		m.num("qos", strconv.Itoa(n.QoS))
		m.boolean("tls", n.TLS)
	case *ast.TopicDecl:
		m.header("topic", n)
		m.str("name", n.Name)
		m.str("path", n.Path)
	case *ast.LimitsDecl:
		m.header("limits", n)
		entries := seq()
		for _, e := range n.Entries {
			entries.Content = append(entries.Content, Node(e))
		}
		m.set("entries", entries)
	case *ast.LimitEntry:
		m.header("limit", n)
		m.str("name", n.Name)
		m.str("bound", n.TokenLiteral())
		m.set("value", Node(n.Bound))
	case *ast.TaskDecl:
		m.header("task", n)
		m.str("name", n.Name)
		params := seq()
		for _, p := range n.Params {
			params.Content = append(params.Content, Node(p))
		}
		m.set("params", params)
		m.set("body", Node(n.Body))
	case *ast.Param:
		m.header("param", n)
		m.str("name", n.Name)
		if n.Type != nil {
			m.str("type", n.Type.Name)
		}
	case *ast.TypeRef:
		m.header("type", n)
		m.str("name", n.Name)
	case *ast.ScheduleDecl:
		m.header("schedule", n)
		m.str("name", n.Name)
		m.set("frequency", Node(n.Frequency))
		m.str("priority", n.Priority.String())
		m.set("body", Node(n.Body))
	case *ast.EventDecl:
		m.header("when", n)
		m.str("trigger", n.Trigger.String())
		m.str("source", n.Source)
		if n.Var != "" {
			m.str("var", n.Var)
		}
		m.set("handler", Node(n.Handler))

	case *ast.BlockStmt:
		m.header("block", n)
		stmts := seq()
		for _, s := range n.Stmts {
			stmts.Content = append(stmts.Content, Node(s))
		}
		m.set("stmts", stmts)
	case *ast.ExprStmt:
		m.header("expr", n)
		m.set("expr", Node(n.Expr))
	case *ast.AssignStmt:
		m.header("assign", n)
		m.boolean("define", n.Define)
		m.set("target", Node(n.Target))
		m.set("value", Node(n.Value))
	case *ast.IfStmt:
		m.header("if", n)
		m.set("cond", Node(n.Cond))
		m.set("then", Node(n.Then))
		if n.Else != nil {
			m.set("else", Node(n.Else))
		}
	case *ast.WaitStmt:
		m.header("wait", n)
		m.set("duration", Node(n.Duration))
	case *ast.ReturnStmt:
		m.header("return", n)
		if n.Value != nil {
			m.set("value", Node(n.Value))
		}

	case *ast.NumberLit:
		m.header("number", n)
		m.num("value", n.Text)
	case *ast.StringLit:
		m.header("string", n)
		m.str("value", n.Value)
	case *ast.BoolLit:
		m.header("bool", n)
		m.boolean("value", n.Value)
	case *ast.Ident:
		m.header("ident", n)
		m.str("name", n.Name)
	case *ast.UnitExpr:
		m.header("unit", n)
		m.num("value", n.Value.Text)
		m.str("unit", n.Unit.String())
	case *ast.BinaryExpr:
		m.header("binary", n)
		m.str("op", n.Op)
		m.set("left", Node(n.Left))
		m.set("right", Node(n.Right))
	case *ast.UnaryExpr:
		m.header("unary", n)
		m.str("op", n.Op)
		m.set("operand", Node(n.Operand))
	case *ast.CallExpr:
		m.header("call", n)
		m.set("callee", Node(n.Callee))
		args := seq()
		for _, a := range n.Args {
			args.Content = append(args.Content, Node(a))
		}
		m.set("args", args)
	case *ast.MemberExpr:
		m.header("member", n)
		m.set("object", Node(n.Object))
		m.str("member", n.Member)

	default:
		panic(fmt.Sprintf("dump: unexpected node %T", n))
	}

	return m.node
}

type mapping struct {
	node *yaml.Node
}

func (m *mapping) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func (m *mapping) scalar(key, tag, value string) {
	m.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

func (m *mapping) str(key, value string) {
	m.scalar(key, "!!str", value)
}

func (m *mapping) num(key, value string) {
	m.scalar(key, numberTag(value), value)
}

func (m *mapping) boolean(key string, v bool) {
	m.scalar(key, "!!bool", strconv.FormatBool(v))
}

func (m *mapping) header(kind string, n ast.Node) {
	m.str("kind", kind)
	pos := n.Pos()
	m.str("pos", fmt.Sprintf("%d:%d", pos.Line, pos.Column))
}

func seq() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func numberTag(text string) string {
	if _, err := strconv.Atoi(text); err == nil {
		return "!!int"
	}
	return "!!float"
}
