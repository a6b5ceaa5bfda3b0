// Package main hosts the gamekeep CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the resolution pipeline on the
// terminal: one-shot catalog searches, staggered batch resolution,
// catalog snapshot maintenance, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands
// can focus on user experience instead of wiring.
package main
