package domain

// Challenge is a host platform challenge. Read-only to the plugin.
type Challenge struct {
	ID       int64
	Name     string
	Category string
	Type     string
}
