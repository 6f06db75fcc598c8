package runtime

import "github.com/panyam/blang/decl"

type Node = decl.Node
type Location = decl.Location
type Token = decl.Token
type Expr = decl.Expr
type Stmt = decl.Stmt
type Env[T any] = decl.Env[T]
type Program = decl.Program

type LetDecl = decl.LetDecl
type FuncDecl = decl.FuncDecl
type ClassDecl = decl.ClassDecl
type ExprStmt = decl.ExprStmt
type ReturnStmt = decl.ReturnStmt
type BlockStmt = decl.BlockStmt
type IfStmt = decl.IfStmt

type LiteralExpr = decl.LiteralExpr
type VariableExpr = decl.VariableExpr
type AssignExpr = decl.AssignExpr
type BinaryExpr = decl.BinaryExpr
type CallExpr = decl.CallExpr
type GroupingExpr = decl.GroupingExpr
type CaseExpr = decl.CaseExpr
type RuntimeError = decl.RuntimeError
