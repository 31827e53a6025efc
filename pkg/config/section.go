package config

// Section is one named group of settings persisted under its ID.
type Section interface {
	// ID is the key the section is stored under.
	ID() string

	Title() string
	Description() string

	// Data returns the section as a JSON-friendly map.
	Data() map[string]interface{}

	// SetData applies values from data. Unknown keys are ignored; keys with
	// values of the wrong type are an error.
	SetData(data map[string]interface{}) error

	Validate() error

	// Reset restores defaults.
	Reset()
}
