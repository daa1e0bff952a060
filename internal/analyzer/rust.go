package analyzer

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/loregrep/internal/model"
	"github.com/jward/loregrep/internal/parser"
)

// RustAnalyzer is the one fully-implemented Language Analyzer. It walks
// the tree-sitter-rust concrete syntax tree directly (no compiled query
// patterns) in the style of a hand-rolled recursive-descent extractor:
// see DESIGN.md for the example this is grounded on.
type RustAnalyzer struct{}

func (a *RustAnalyzer) Analyze(ctx context.Context, source []byte, path string) (*model.FileAnalysis, error) {
	tree, err := parser.Parse(ctx, source, "rust")
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.Type() != "source_file" {
		return nil, errAnalyze(path, fmt.Sprintf("unexpected root node type %q", root.Type()))
	}

	fa := &model.FileAnalysis{
		FilePath: path,
		Language: "rust",
	}

	walkTopLevel(root, source, fa, "")

	return fa, nil
}

// walkTopLevel walks node's children, extracting functions, structs, use
// declarations and call expressions. enclosingFn is the name of the
// nearest enclosing function, used to tag FunctionCall.CallerFunction; it
// is "" at module scope.
func walkTopLevel(node *sitter.Node, src []byte, fa *model.FileAnalysis, enclosingFn string) {
	if node == nil || node.IsError() {
		return
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child == nil || child.IsError() {
			continue
		}

		switch child.Type() {
		case "function_item":
			fn := extractFunction(child, src)
			name := ""
			if fn != nil {
				fa.Functions = append(fa.Functions, *fn)
				name = fn.Name
			}
			walkTopLevel(bodyOf(child), src, fa, name)
			continue

		case "struct_item":
			st := extractStruct(child, src)
			if st != nil {
				fa.Structs = append(fa.Structs, *st)
			}

		case "use_declaration":
			extractUse(child, src, fa)

		case "impl_item":
			// Methods inside an impl block are functions in their own
			// right, with the impl's call subtree walked the same way.
			walkTopLevel(bodyOf(child), src, fa, enclosingFn)
			continue

		case "mod_item":
			walkTopLevel(bodyOf(child), src, fa, enclosingFn)
			continue

		case "call_expression":
			if call := extractCall(child, src, fa.FilePath, enclosingFn); call != nil {
				fa.FunctionCalls = append(fa.FunctionCalls, *call)
			}
		}

		// Calls can be nested anywhere (inside if/match/let/etc.), so
		// recurse regardless of the node's own type to find them, while
		// only the cases above produce new top-level symbols.
		walkTopLevel(child, src, fa, enclosingFn)
	}
}

// bodyOf returns the declaration_list/block child of an item node, if any.
func bodyOf(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName("body")
}

func extractFunction(node *sitter.Node, src []byte) *model.FunctionSignature {
	fn := &model.FunctionSignature{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	isPublic, isAsync := false, false
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case "visibility_modifier":
			isPublic = true
		case "function_modifiers":
			if strings.Contains(child.Content(src), "async") {
				isAsync = true
			}
		case "async":
			isAsync = true
		case "identifier":
			if fn.Name == "" {
				fn.Name = child.Content(src)
			}
		case "parameters":
			fn.Parameters = extractParameters(child, src)
		case "type_identifier", "generic_type", "reference_type",
			"scoped_type_identifier", "primitive_type", "tuple_type", "unit_type":
			fn.ReturnTypeText = child.Content(src)
		}
	}

	if fn.Name == "" {
		return nil
	}
	fn.IsPublic = isPublic
	fn.IsAsync = isAsync
	return fn
}

func extractParameters(node *sitter.Node, src []byte) []model.Parameter {
	var params []model.Parameter
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case "self_parameter":
			params = append(params, model.Parameter{Name: child.Content(src)})
		case "parameter":
			p := model.Parameter{}
			pc := int(child.ChildCount())
			for j := 0; j < pc; j++ {
				sub := child.Child(j)
				switch sub.Type() {
				case "identifier":
					if p.Name == "" {
						p.Name = sub.Content(src)
					}
				case "mutable_specifier", ":":
					// mutable_specifier: name capture below still fires;
					// ":" is the separator token, not the type node.
				default:
					if p.TypeText == "" && sub != nil {
						p.TypeText = sub.Content(src)
					}
				}
			}
			if p.Name != "" {
				params = append(params, p)
			}
		}
	}
	return params
}

func extractStruct(node *sitter.Node, src []byte) *model.StructSignature {
	st := &model.StructSignature{
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case "visibility_modifier":
			st.IsPublic = true
		case "type_identifier":
			if st.Name == "" {
				st.Name = child.Content(src)
			}
		case "field_declaration_list":
			st.Fields = extractFields(child, src)
		case "ordered_field_declaration_list":
			st.IsTupleStruct = true
			st.Fields = extractTupleFields(child, src)
		}
	}

	if st.Name == "" {
		return nil
	}
	return st
}

func extractFields(node *sitter.Node, src []byte) []model.Field {
	var fields []model.Field
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child.Type() != "field_declaration" {
			continue
		}
		f := model.Field{}
		fc := int(child.ChildCount())
		for j := 0; j < fc; j++ {
			sub := child.Child(j)
			switch sub.Type() {
			case "visibility_modifier":
				f.IsPublic = true
			case "field_identifier":
				f.Name = sub.Content(src)
			default:
				if f.Name != "" && f.TypeText == "" && sub.Type() != ":" {
					f.TypeText = sub.Content(src)
				}
			}
		}
		if f.Name != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func extractTupleFields(node *sitter.Node, src []byte) []model.Field {
	var fields []model.Field
	isPub := false
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case "visibility_modifier":
			isPub = true
		case ",", "(", ")":
			isPub = false
		default:
			fields = append(fields, model.Field{TypeText: child.Content(src), IsPublic: isPub})
			isPub = false
		}
	}
	return fields
}

// extractUse records a use_declaration as an import, and — when it is a
// `pub use` re-export — also as an export. See DESIGN.md's Open Question
// decision: re-exports appear in both lists.
func extractUse(node *sitter.Node, src []byte, fa *model.FileAnalysis) {
	line := int(node.StartPoint().Row) + 1
	isPub := false
	var pathText string

	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		child := node.Child(i)
		switch child.Type() {
		case "visibility_modifier":
			isPub = true
		case "use_wildcard", "use_list", "scoped_identifier", "identifier", "scoped_use_list", "use_as_clause":
			if pathText == "" {
				pathText = child.Content(src)
			}
		}
	}
	if pathText == "" {
		return
	}

	fa.Imports = append(fa.Imports, model.ImportStatement{
		ModulePath: pathText,
		LineNumber: line,
		IsExternal: isExternalPath(pathText),
	})

	if isPub {
		fa.Exports = append(fa.Exports, model.ExportStatement{
			ExportedItem: lastSegment(pathText),
			LineNumber:   line,
		})
	}
}

// isExternalPath applies the spec's best-effort rule: a path is external
// unless its first segment refers to the current crate (crate/self/super).
func isExternalPath(path string) bool {
	first := path
	if idx := strings.Index(path, "::"); idx >= 0 {
		first = path[:idx]
	}
	switch first {
	case "crate", "self", "super":
		return false
	}
	return true
}

func lastSegment(path string) string {
	path = strings.TrimSuffix(path, "::*")
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+2:]
	}
	return path
}

// extractCall builds a FunctionCall from a call_expression node. The
// callee is the rightmost segment of whatever is being called — the full
// path is not retained, per spec §4.B.
func extractCall(node *sitter.Node, src []byte, filePath, enclosingFn string) *model.FunctionCall {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil {
		return nil
	}

	name := calleeName(fnNode, src)
	if name == "" {
		return nil
	}

	return &model.FunctionCall{
		FunctionName:   name,
		FilePath:       filePath,
		LineNumber:     int(node.StartPoint().Row) + 1,
		Column:         int(node.StartPoint().Column) + 1,
		CallerFunction: enclosingFn,
	}
}

func calleeName(node *sitter.Node, src []byte) string {
	switch node.Type() {
	case "identifier", "field_identifier":
		return node.Content(src)
	case "field_expression":
		if field := node.ChildByFieldName("field"); field != nil {
			return field.Content(src)
		}
	case "scoped_identifier":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
		return lastSegment(node.Content(src))
	case "generic_function":
		if fn := node.ChildByFieldName("function"); fn != nil {
			return calleeName(fn, src)
		}
	}
	return lastSegment(node.Content(src))
}
