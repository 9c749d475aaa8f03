// Package processor wires the store, the translation provider and the
// recipe services together and runs the recipetrans subcommands. It is
// the coordinator between the CLI and all other components.
package processor
