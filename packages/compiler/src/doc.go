// Package compiler provides the template compiler facade: it chains a
// parser, the static optimizer and a code generator, collects diagnostics
// and caches results.
//
// The parser and the code generator are supplied by the caller; this
// module defines the data they exchange.
//
// Main sub-packages:
//
//   - ast: template AST nodes, tree helpers and the JSON / MessagePack codec
//   - config: compiler options, the module plugin chain, binding metadata
//     and vtc.toml loading
//   - schema: web platform tag and attribute tables, class and style
//     modules, v-text and v-html directives
//   - optimizer: static subtree marking for client and server rendering
//   - sfc: single file component descriptors, CSS v-bind() collection and
//     the hot reload decision
//   - util: MakeMap, tag classification, component name validation and
//     diagnostics with code frames
//   - core: character classes and version parsing
//
// Typical use:
//
//	base := compiler.NewBaseCompile(parse, generate)
//	c := compiler.CreateCompiler(base, config.New(schema.WebOptions()...))
//	res := c.Compile(template, config.Overrides(config.WithOutputSourceRange(true)))
//	for _, e := range res.Errors {
//		fmt.Println(e.ContextualMessage(template))
//	}
package compiler
