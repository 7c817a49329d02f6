package base44

// Entity is a backend-managed record with an open field set. The client
// never validates or coerces entity fields; they pass through unmodified.
type Entity map[string]interface{}

// ID returns the entity's id field, or "" when unset.
func (e Entity) ID() string {
	id, _ := e["id"].(string)

	return id
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (e Entity) String(field string) string {
	value, _ := e[field].(string)

	return value
}

// User represents the identity returned by the auth endpoints. The backend
// may attach additional fields; only the common ones are typed.
type User struct {
	ID       string `json:"id"                  yaml:"id"`
	Email    string `json:"email"               yaml:"email"`
	FullName string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Role     string `json:"role,omitempty"      yaml:"role,omitempty"`
	Disabled bool   `json:"disabled,omitempty"  yaml:"disabled,omitempty"`
}

// ImportResult is the backend-defined outcome of an entity import.
type ImportResult map[string]interface{}
