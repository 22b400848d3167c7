package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hearth/internal/entity"
)

// ShoppingView is the shopping list as printed by the shopping commands.
type ShoppingView struct {
	Items     []entity.ShoppingItem `json:"items"`
	Unchecked int                   `json:"unchecked"`
}

// NewShoppingCommand creates the shopping command group.
func NewShoppingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Work with the shopping list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				return printShopping(cmd, opts, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>...",
		Short: "Add items to the shopping list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				if len(args) == 1 {
					app.Controller.AddShoppingItem(args[0])
				} else {
					app.Controller.AddIngredientsToShopping(args)
				}
				return printShopping(cmd, opts, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "ingredients <recipe-id>",
		Short: "Add every ingredient of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				for _, r := range app.Controller.Snapshot().Recipes {
					if r.ID == args[0] {
						app.Controller.AddIngredientsToShopping(r.Ingredients)
						return printShopping(cmd, opts, app)
					}
				}
				return NewExitError(ExitFailure, fmt.Sprintf("no recipe with id %q", args[0]))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Check or uncheck an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				if _, ok := app.Controller.ToggleShoppingItem(args[0]); !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("no shopping item with id %q", args[0]))
				}
				return printShopping(cmd, opts, app)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				app.Controller.DeleteShoppingItem(args[0])
				return printShopping(cmd, opts, app)
			})
		},
	})

	return cmd
}

func printShopping(cmd *cobra.Command, opts *RootOptions, app *App) error {
	view := ShoppingView{
		Items:     app.Controller.Snapshot().Shopping,
		Unchecked: app.Controller.UncheckedShoppingCount(),
	}
	return newFormatter(cmd, opts).Render(view, func(w io.Writer) error {
		for _, it := range view.Items {
			fmt.Fprintf(w, "%s %s (%s)\n", checkbox(it.Checked), it.Name, it.ID)
		}
		fmt.Fprintf(w, "%d offen\n", view.Unchecked)
		return nil
	})
}

// withController opens the app and loads the controller state.
func withController(cmd *cobra.Command, opts *RootOptions, fn func(app *App) error) error {
	return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(app *App) error {
		app.Controller.Load(cmd.Context())
		return fn(app)
	})
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
