// Package config resolves the layered configuration that templates are
// rendered against.
//
// Resolution happens in a fixed order:
//
//  1. load the JSON config file (explicit path, ./dockerish.config.json, or {})
//  2. apply key:value overrides at the top level
//  3. narrow to a namespace sub-mapping when one is requested
//  4. rewrite %{JSON:dotted.path} markers in string values
//
// Step 4 is a single pass over the config in sorted key order, reading from
// the same mapping it rewrites. A marker whose source still holds an
// unresolved marker sees whatever that source holds at the moment it is
// read; there is no fixpoint iteration. Lists are not traversed.
package config
