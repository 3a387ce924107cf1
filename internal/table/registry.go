package table

// Registry holds every loaded table keyed by name, the way a workbook maps
// sheet names to sheets. The engine only ever reads from it.
type Registry map[string]*Table

// Table looks up a table by name.
func (r Registry) Table(name string) (*Table, bool) {
	t, ok := r[name]
	return t, ok
}

// Names returns the registered table names, unordered.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}
