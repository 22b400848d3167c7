package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hearth/internal/sqltable"
	"github.com/roach88/hearth/internal/store"
)

// SchemaView reports the remote tables after binding.
type SchemaView struct {
	Driver string                     `json:"driver"`
	Tables []sqltable.RegisteredTable `json:"tables,omitempty"`
	Remote []store.Binding            `json:"remote"`
}

// NewSchemaCommand creates the schema command. Binding every kind creates
// missing remote tables, so running it once prepares a fresh database.
func NewSchemaCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing remote tables and list them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(app *App) error {
				if !app.Factory.RemoteConfigured() {
					return NewExitError(ExitCommandError, "no remote store configured")
				}
				view := SchemaView{Driver: app.Config.Remote.Driver, Remote: []store.Binding{}}
				for _, b := range app.Factory.Bindings() {
					if b.Backend == store.BackendRemote {
						view.Remote = append(view.Remote, b)
					}
				}
				if app.SQL != nil {
					tables, err := app.SQL.Tables(cmd.Context())
					if err != nil {
						return WrapExitError(ExitFailure, "failed to list tables", err)
					}
					view.Tables = tables
				}
				return newFormatter(cmd, opts).Render(view, func(w io.Writer) error {
					for _, b := range view.Remote {
						fmt.Fprintf(w, "%-16s %s\n", b.Kind, b.Table)
					}
					for _, t := range view.Tables {
						fmt.Fprintf(w, "registered %s (%s) at %s\n", t.Name, t.Kind, t.CreatedAt)
					}
					return nil
				})
			})
		},
	}
}

// NewBindingsCommand creates the bindings command.
func NewBindingsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "Show which backend holds each kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(app *App) error {
				bindings := app.Factory.Bindings()
				return newFormatter(cmd, opts).Render(bindings, func(w io.Writer) error {
					for _, b := range bindings {
						where := b.Key
						if b.Backend == store.BackendRemote {
							where = b.Table
						}
						fmt.Fprintf(w, "%-16s %-6s %s\n", b.Kind, b.Backend, where)
					}
					return nil
				})
			})
		},
	}
}
