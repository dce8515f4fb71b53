package domain

// ConfigKind is the value type stored under a configuration key.
type ConfigKind string

// Configuration value kinds.
const (
	KindString ConfigKind = "string"
	KindInt    ConfigKind = "int"
	KindFloat  ConfigKind = "float"
	KindBool   ConfigKind = "bool"
)

// ConfigKey describes one setting that can be kept in the config file.
type ConfigKey struct {
	// Name is the dotted key, e.g. "classifier.host".
	Name string

	// Kind is the type the value is parsed to before it is stored.
	Kind ConfigKind

	// Description is shown by the config command.
	Description string
}
