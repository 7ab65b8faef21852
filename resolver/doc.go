// Package resolver follows indirect references through an object reader.
//
// An [ObjectResolver] implements [core.Resolver], so it can be handed to
// anything in the module that looks up objects:
//
//	r := resolver.NewResolver(reader)
//	obj, err := r.Resolve(core.IndirectRef{Number: 5})
//
// Resolve follows a chain of references to the first direct object.
// ResolveDeep also expands the references inside dictionaries, arrays and
// stream dictionaries. Both detect cycles and bound the recursion depth,
// which can be changed with [WithMaxDepth].
package resolver
