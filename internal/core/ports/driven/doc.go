// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ClassifierClient: Group lookup, fetch, create and update on the classifier
//   - BatchLoader: Desired-state documents from YAML or JSON files
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - JournalStore: Local record of submitted updates. Without it, history is empty.
//   - AvailabilityProber: Pre-flight wait for the classifier port.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
