package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/cloudcmds/kestrel/ast"
	"github.com/cloudcmds/kestrel/parser"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree of kestrel code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAST,
	}
}

func runAST(cmd *cobra.Command, args []string) error {
	code, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	program, err := parser.Parse(cmd.Context(), code)
	if err != nil {
		return friendlyError(err, code)
	}
	root := nodeToJSON(program)
	if wantsJSON() {
		return printJSON(cmd.OutOrStdout(), root)
	}
	printAST(cmd.OutOrStdout(), root, 0)
	return nil
}

// ASTNode represents a node in the printed syntax tree.
type ASTNode struct {
	Type     string     `json:"type"`
	Value    any        `json:"value,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

func nodeToJSON(node ast.Node) *ASTNode {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return nil
	}
	result := &ASTNode{Type: reflect.TypeOf(node).Elem().Name()}

	add := func(children ...ast.Node) {
		for _, child := range children {
			if n := nodeToJSON(child); n != nil {
				result.Children = append(result.Children, n)
			}
		}
	}

	switch n := node.(type) {
	case *ast.Program:
		for _, stmt := range n.Stmts {
			add(stmt)
		}
	case *ast.Ident:
		result.Value = n.Name
	case *ast.Int:
		result.Value = n.Value
	case *ast.Bool:
		result.Value = n.Value
	case *ast.String:
		result.Value = n.Value
	case *ast.Let:
		result.Value = n.Name.Name
		add(n.Value)
	case *ast.Return:
		add(n.Value)
	case *ast.ExprStmt:
		add(n.X)
	case *ast.Block:
		for _, stmt := range n.Stmts {
			add(stmt)
		}
	case *ast.Prefix:
		result.Value = n.Op
		add(n.X)
	case *ast.Infix:
		result.Value = n.Op
		add(n.X, n.Y)
	case *ast.If:
		result.Children = append(result.Children,
			&ASTNode{Type: "Condition", Children: []*ASTNode{nodeToJSON(n.Cond)}},
			&ASTNode{Type: "Then", Children: []*ASTNode{nodeToJSON(n.Consequence)}},
		)
		if n.Alternative != nil {
			result.Children = append(result.Children,
				&ASTNode{Type: "Else", Children: []*ASTNode{nodeToJSON(n.Alternative)}})
		}
	case *ast.Func:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		result.Value = strings.Join(params, ", ")
		add(n.Body)
	case *ast.Call:
		add(n.Fun)
		for _, arg := range n.Args {
			add(arg)
		}
	}
	return result
}

var astTypeColor = color.New(color.FgCyan).SprintFunc()

func printAST(w io.Writer, node *ASTNode, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	if node.Value != nil && node.Value != "" {
		fmt.Fprintf(w, "%s%s %v\n", indent, astTypeColor(node.Type), node.Value)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, astTypeColor(node.Type))
	}
	for _, child := range node.Children {
		printAST(w, child, depth+1)
	}
}
