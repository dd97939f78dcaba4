package ast

import "github.com/neurox-lang/neurox/internal/compiler/token"

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	Pos() token.Position
}

// Declaration is a top-level item inside a robot block
type Declaration interface {
	Node
	declarationNode()
}

// Statement is an item inside a task, schedule or handler body
type Statement interface {
	Node
	statementNode()
}

// Expression produces a value
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: robot Name { ... }
type Program struct {
	Start token.Position
	Name  string
	Decls []Declaration
}

func (p *Program) TokenLiteral() string { return "robot" }
func (p *Program) Pos() token.Position  { return p.Start }

// ============ HARDWARE ============

// MotorDecl represents: motor m1 on M1
type MotorDecl struct {
	Start token.Position
	Name  string
	Pin   string
}

func (d *MotorDecl) TokenLiteral() string { return "motor" }
func (d *MotorDecl) Pos() token.Position  { return d.Start }
func (d *MotorDecl) declarationNode()     {}

// ServoDecl represents: servo arm on S1
type ServoDecl struct {
	Start token.Position
	Name  string
	Pin   string
}

func (d *ServoDecl) TokenLiteral() string { return "servo" }
func (d *ServoDecl) Pos() token.Position  { return d.Start }
func (d *ServoDecl) declarationNode()     {}

// SensorDecl represents: sensor front on A0 type ultrasonic
type SensorDecl struct {
	Start token.Position
	Name  string
	Pin   string
	Type  string // empty when no type clause is given
}

func (d *SensorDecl) TokenLiteral() string { return "sensor" }
func (d *SensorDecl) Pos() token.Position  { return d.Start }
func (d *SensorDecl) declarationNode()     {}

// GPIODecl represents: gpio led on 13 mode Output
type GPIODecl struct {
	Start token.Position
	Name  string
	Pin   string
	Mode  PinMode
}

func (d *GPIODecl) TokenLiteral() string { return "gpio" }
func (d *GPIODecl) Pos() token.Position  { return d.Start }
func (d *GPIODecl) declarationNode()     {}

// BusDecl represents: bus imu on I2C @ 104
type BusDecl struct {
	Start      token.Position
	Name       string
	Kind       BusKind
	Address    int
	HasAddress bool
}

func (d *BusDecl) TokenLiteral() string { return "bus" }
func (d *BusDecl) Pos() token.Position  { return d.Start }
func (d *BusDecl) declarationNode()     {}

// ============ NETWORK ============

// NetDecl represents: net mqtt { broker "..." client_id "..." qos 1 }
type NetDecl struct {
	Start    token.Position
	Protocol string // "mqtt"
	Broker   string
	ClientID string
	QoS      int
	TLS      bool // broker scheme is mqtts, ssl or tls
}

func (d *NetDecl) TokenLiteral() string { return "net" }
func (d *NetDecl) Pos() token.Position  { return d.Start }
func (d *NetDecl) declarationNode()     {}

// TopicDecl represents: topic cmd on "robot/cmd"
type TopicDecl struct {
	Start token.Position
	Name  string
	Path  string
}

func (d *TopicDecl) TokenLiteral() string { return "topic" }
func (d *TopicDecl) Pos() token.Position  { return d.Start }
func (d *TopicDecl) declarationNode()     {}

// ============ SAFETY ============

// LimitsDecl represents a limits { ... } block
type LimitsDecl struct {
	Start   token.Position
	Entries []*LimitEntry
}

func (d *LimitsDecl) TokenLiteral() string { return "limits" }
func (d *LimitsDecl) Pos() token.Position  { return d.Start }
func (d *LimitsDecl) declarationNode()     {}

// LimitEntry is one bound: speed max 80Percent
type LimitEntry struct {
	Start token.Position
	Name  string
	Bound Expression
	IsMax bool
}

func (e *LimitEntry) TokenLiteral() string {
	if e.IsMax {
		return "max"
	}
	return "min"
}
func (e *LimitEntry) Pos() token.Position { return e.Start }

// ============ BEHAVIOR ============

// TaskDecl represents: task move(speed: Percent) { ... }
type TaskDecl struct {
	Start  token.Position
	Name   string
	Params []*Param
	Body   *BlockStmt
}

func (d *TaskDecl) TokenLiteral() string { return "task" }
func (d *TaskDecl) Pos() token.Position  { return d.Start }
func (d *TaskDecl) declarationNode()     {}

// Param is a task parameter with an optional type annotation
type Param struct {
	Start token.Position
	Name  string
	Type  *TypeRef
}

func (p *Param) TokenLiteral() string { return p.Name }
func (p *Param) Pos() token.Position  { return p.Start }

// TypeRef names a parameter type: an identifier or a unit/type keyword
type TypeRef struct {
	Start token.Position
	Name  string
}

func (t *TypeRef) TokenLiteral() string { return t.Name }
func (t *TypeRef) Pos() token.Position  { return t.Start }

// ScheduleDecl represents: schedule main @ 10Hz priority HIGH { ... }
type ScheduleDecl struct {
	Start     token.Position
	Name      string
	Frequency Expression
	Priority  Priority
	Body      *BlockStmt
}

func (d *ScheduleDecl) TokenLiteral() string { return "schedule" }
func (d *ScheduleDecl) Pos() token.Position  { return d.Start }
func (d *ScheduleDecl) declarationNode()     {}

// EventDecl represents: when message cmd as msg { ... }
type EventDecl struct {
	Start   token.Position
	Trigger Trigger
	Source  string
	Var     string // empty when there is no "as" clause
	Handler *BlockStmt
}

func (d *EventDecl) TokenLiteral() string { return "when" }
func (d *EventDecl) Pos() token.Position  { return d.Start }
func (d *EventDecl) declarationNode()     {}

// ============ STATEMENTS ============

// ExprStmt is an expression evaluated for its effect: stop()
type ExprStmt struct {
	Start token.Position
	Expr  Expression
}

func (s *ExprStmt) TokenLiteral() string { return s.Expr.TokenLiteral() }
func (s *ExprStmt) Pos() token.Position  { return s.Start }
func (s *ExprStmt) statementNode()       {}

// AssignStmt represents: m1.power = 50Percent, or let x = 1 when Define is set
type AssignStmt struct {
	Start  token.Position
	Target Expression // *Ident or *MemberExpr
	Value  Expression
	Define bool
}

func (s *AssignStmt) TokenLiteral() string {
	if s.Define {
		return "let"
	}
	return "="
}
func (s *AssignStmt) Pos() token.Position { return s.Start }
func (s *AssignStmt) statementNode()      {}

// IfStmt represents: if cond { ... } else { ... }
type IfStmt struct {
	Start token.Position
	Cond  Expression
	Then  *BlockStmt
	Else  Statement // nil, *BlockStmt or *IfStmt
}

func (s *IfStmt) TokenLiteral() string { return "if" }
func (s *IfStmt) Pos() token.Position  { return s.Start }
func (s *IfStmt) statementNode()       {}

// BlockStmt is a braced statement list
type BlockStmt struct {
	Start token.Position
	Stmts []Statement
}

func (s *BlockStmt) TokenLiteral() string { return "{" }
func (s *BlockStmt) Pos() token.Position  { return s.Start }
func (s *BlockStmt) statementNode()       {}

// WaitStmt represents: wait(100ms)
type WaitStmt struct {
	Start    token.Position
	Duration Expression
}

func (s *WaitStmt) TokenLiteral() string { return "wait" }
func (s *WaitStmt) Pos() token.Position  { return s.Start }
func (s *WaitStmt) statementNode()       {}

// ReturnStmt represents: return [expr]
type ReturnStmt struct {
	Start token.Position
	Value Expression // nil for a bare return
}

func (s *ReturnStmt) TokenLiteral() string { return "return" }
func (s *ReturnStmt) Pos() token.Position  { return s.Start }
func (s *ReturnStmt) statementNode()       {}

// ============ EXPRESSIONS ============

// NumberLit keeps both the parsed value and the source spelling
type NumberLit struct {
	Start token.Position
	Value float64
	Text  string
}

func (e *NumberLit) TokenLiteral() string { return e.Text }
func (e *NumberLit) Pos() token.Position  { return e.Start }
func (e *NumberLit) expressionNode()      {}

// StringLit holds the text between the quotes
type StringLit struct {
	Start token.Position
	Value string
}

func (e *StringLit) TokenLiteral() string { return e.Value }
func (e *StringLit) Pos() token.Position  { return e.Start }
func (e *StringLit) expressionNode()      {}

type BoolLit struct {
	Start token.Position
	Value bool
}

func (e *BoolLit) TokenLiteral() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolLit) Pos() token.Position { return e.Start }
func (e *BoolLit) expressionNode()     {}

type Ident struct {
	Start token.Position
	Name  string
}

func (e *Ident) TokenLiteral() string { return e.Name }
func (e *Ident) Pos() token.Position  { return e.Start }
func (e *Ident) expressionNode()      {}

// BinaryExpr represents: left op right
type BinaryExpr struct {
	Start token.Position
	Left  Expression
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&&", "||"
	Right Expression
}

func (e *BinaryExpr) TokenLiteral() string { return e.Op }
func (e *BinaryExpr) Pos() token.Position  { return e.Start }
func (e *BinaryExpr) expressionNode()      {}

// UnaryExpr represents: -x or !x
type UnaryExpr struct {
	Start   token.Position
	Op      string
	Operand Expression
}

func (e *UnaryExpr) TokenLiteral() string { return e.Op }
func (e *UnaryExpr) Pos() token.Position  { return e.Start }
func (e *UnaryExpr) expressionNode()      {}

// CallExpr represents: callee(args...)
type CallExpr struct {
	Start  token.Position
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) TokenLiteral() string { return "call" }
func (e *CallExpr) Pos() token.Position  { return e.Start }
func (e *CallExpr) expressionNode()      {}

// MemberExpr represents: object.member
type MemberExpr struct {
	Start  token.Position
	Object Expression
	Member string
}

func (e *MemberExpr) TokenLiteral() string { return "." }
func (e *MemberExpr) Pos() token.Position  { return e.Start }
func (e *MemberExpr) expressionNode()      {}

// UnitExpr is a number with a unit suffix: 100ms, 90deg/s
type UnitExpr struct {
	Start token.Position
	Value *NumberLit
	Unit  Unit
}

func (e *UnitExpr) TokenLiteral() string { return e.Value.Text + e.Unit.String() }
func (e *UnitExpr) Pos() token.Position  { return e.Start }
func (e *UnitExpr) expressionNode()      {}
