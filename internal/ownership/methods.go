package ownership

import "strings"

var mutatingMethods = map[string]bool{
	"push": true, "pop": true, "insert": true, "remove": true, "clear": true,
	"sort": true, "sort_by": true, "sort_unstable": true, "reverse": true,
	"append": true, "extend": true, "truncate": true, "fill": true,
	"shuffle": true, "drain": true, "retain": true, "dedup": true,
	"push_str": true, "swap": true, "resize": true, "iter_mut": true,
}

var mutatingPrefixes = []string{"set_", "add_", "delete_", "update_"}

// IsMutatingMethod reports whether calling name needs `&mut self`.
func IsMutatingMethod(name string) bool {
	if mutatingMethods[name] {
		return true
	}
	for _, p := range mutatingPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
