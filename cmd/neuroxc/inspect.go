package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/dump"
	"github.com/neurox-lang/neurox/internal/compiler/lexer"
	"github.com/neurox-lang/neurox/internal/compiler/parser"
	"github.com/neurox-lang/neurox/internal/compiler/token"
)

func newLexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			l := lexer.New(src, args[0])
			for {
				tok := l.NextToken()
				if tok.Type == token.EOF {
					break
				}
				if tok.Type == token.NEWLINE {
					continue
				}
				if tok.Type == token.ERROR {
					failed = true
				}
				fmt.Fprintf(out, "[%d:%d] %s: '%s'\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			opts := append(a.proj.ParserOptions(), parser.WithSink(a.sink))
			p := parser.New(lexer.New(src, args[0]), opts...)
			prog := p.ParseProgram()
			if prog == nil || p.HadError() {
				return errFailed
			}

			if format == "yaml" {
				return dump.YAML(cmd.OutOrStdout(), prog)
			}
			return ast.Fprint(cmd.OutOrStdout(), prog)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or yaml")
	return cmd
}
