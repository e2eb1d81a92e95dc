package models

import "github.com/voxelfit/batchfit/pkg/tools/errorutils"

// ResolveModelNames flattens a list of possibly cascaded model names into
// the deduplicated list of leaf model names reachable from them. The memo
// is scoped to one call, so shared sub cascades are resolved once per
// invocation but never across invocations. A cascade that directly or
// indirectly contains itself yields a CyclicCascadeError.
func ResolveModelNames(names []string) ([]string, error) {
	memo := make(map[string][]string)
	inProgress := make(map[string]bool)

	var resolve func(current []string) ([]string, error)
	resolve = func(current []string) ([]string, error) {
		var leafNames []string
		for _, name := range current {
			if cached, ok := memo[name]; ok {
				leafNames = append(leafNames, cached...)
				continue
			}
			if inProgress[name] {
				return nil, &errorutils.CyclicCascadeError{ModelName: name}
			}

			model, err := GetModel(name)
			if err != nil {
				return nil, err
			}

			if cascade, ok := model.(CascadeModel); ok {
				inProgress[name] = true
				resolved, err := resolve(cascade.ModelNames())
				if err != nil {
					return nil, err
				}
				delete(inProgress, name)
				memo[name] = resolved
			} else {
				memo[name] = []string{name}
			}
			leafNames = append(leafNames, memo[name]...)
		}
		return leafNames, nil
	}

	all, err := resolve(names)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(all))
	unique := make([]string, 0, len(all))
	for _, name := range all {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	return unique, nil
}
