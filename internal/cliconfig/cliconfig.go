// Package cliconfig carries a *viper.Viper through a cobra command's
// context, so RunE functions read flags and env vars through one
// consistent path instead of closing over package-level flag variables.
package cliconfig

import (
	"context"

	"github.com/spf13/viper"
)

type contextKey struct{}

// With returns a context carrying v.
func With(ctx context.Context, v *viper.Viper) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// From retrieves the *viper.Viper stored by With. It panics if none was
// stored, since every command in this module wires one in main.
func From(ctx context.Context) *viper.Viper {
	return ctx.Value(contextKey{}).(*viper.Viper)
}
