package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/household"
	"github.com/roach88/hearth/internal/store"
)

// recordOps runs the collection contract against one kind with records
// decoded from and encoded to JSON.
type recordOps struct {
	getAll  func(ctx context.Context) any
	add     func(ctx context.Context, raw []byte) (any, error)
	update  func(ctx context.Context, id string, patch entity.Patch) any
	delete  func(ctx context.Context, id string) any
	replace func(ctx context.Context, raw []byte) (any, error)
}

func opsFor[T entity.Entity](c store.Collection[T]) recordOps {
	return recordOps{
		getAll: func(ctx context.Context) any { return c.GetAll(ctx) },
		add: func(ctx context.Context, raw []byte) (any, error) {
			var item T
			if err := decodeStrict(raw, &item); err != nil {
				return nil, err
			}
			if item.EntityID() == "" {
				return nil, fmt.Errorf("record has no id")
			}
			return c.Add(ctx, item), nil
		},
		update: func(ctx context.Context, id string, patch entity.Patch) any {
			return c.Update(ctx, id, patch)
		},
		delete: func(ctx context.Context, id string) any { return c.Delete(ctx, id) },
		replace: func(ctx context.Context, raw []byte) (any, error) {
			var items []T
			if err := decodeStrict(raw, &items); err != nil {
				return nil, err
			}
			if items == nil {
				items = []T{}
			}
			return c.SetAll(ctx, items), nil
		},
	}
}

func recordOpsFor(cols *household.Collections, kind entity.Kind) (recordOps, bool) {
	switch kind {
	case entity.KindFamily:
		return opsFor(cols.Family), true
	case entity.KindEvents:
		return opsFor(cols.Events), true
	case entity.KindNews:
		return opsFor(cols.News), true
	case entity.KindShopping:
		return opsFor(cols.Shopping), true
	case entity.KindHouseholdTasks:
		return opsFor(cols.HouseholdTasks), true
	case entity.KindPersonalTasks:
		return opsFor(cols.PersonalTasks), true
	case entity.KindMealPlans:
		return opsFor(cols.MealPlan), true
	case entity.KindMealRequests:
		return opsFor(cols.MealRequests), true
	case entity.KindRecipes:
		return opsFor(cols.Recipes), true
	case entity.KindWeatherFavs:
		return opsFor(cols.WeatherFavorites), true
	case entity.KindFeedback:
		return opsFor(cols.Feedback), true
	}
	return recordOps{}, false
}

// NewRecordsCommands creates list, add, update, delete and replace. They
// act on the raw collections, bypassing the in-memory controller.
func NewRecordsCommands(opts *RootOptions) []*cobra.Command {
	list := &cobra.Command{
		Use:   "list <kind>",
		Short: "Print every record of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd, opts, args[0], func(ctx context.Context, ops recordOps) (any, error) {
				return ops.getAll(ctx), nil
			})
		},
	}

	add := &cobra.Command{
		Use:   "add <kind> <json|->",
		Short: "Append one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			return runRecords(cmd, opts, args[0], func(ctx context.Context, ops recordOps) (any, error) {
				return ops.add(ctx, raw)
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <kind> <id> <json-patch|->",
		Short: "Merge a patch into the records with id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArg(cmd, args[2])
			if err != nil {
				return err
			}
			var patch entity.Patch
			if err := json.Unmarshal(raw, &patch); err != nil || patch == nil {
				return WrapExitError(ExitCommandError, "patch must be a JSON object", err)
			}
			return runRecords(cmd, opts, args[0], func(ctx context.Context, ops recordOps) (any, error) {
				return ops.update(ctx, args[1], patch), nil
			})
		},
	}

	del := &cobra.Command{
		Use:     "delete <kind> <id>",
		Aliases: []string{"rm"},
		Short:   "Remove the records with id",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd, opts, args[0], func(ctx context.Context, ops recordOps) (any, error) {
				return ops.delete(ctx, args[1]), nil
			})
		},
	}

	replace := &cobra.Command{
		Use:   "replace <kind> <json-array|->",
		Short: "Replace a whole collection",
		Long: `Replace a whole collection with the given records.

On a remote store this deletes records missing from the input and then
upserts the rest. The two steps are not atomic.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArg(cmd, args[1])
			if err != nil {
				return err
			}
			return runRecords(cmd, opts, args[0], func(ctx context.Context, ops recordOps) (any, error) {
				return ops.replace(ctx, raw)
			})
		},
	}

	return []*cobra.Command{list, add, update, del, replace}
}

func runRecords(cmd *cobra.Command, opts *RootOptions, kindArg string, fn func(ctx context.Context, ops recordOps) (any, error)) error {
	kind := entity.Kind(kindArg)
	if _, ok := entity.Lookup(kind); !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown kind %q (known: %s)", kindArg, kindList()))
	}
	out := newFormatter(cmd, opts)
	return withApp(cmd.Context(), opts, cmd.ErrOrStderr(), func(app *App) error {
		ops, _ := recordOpsFor(app.Collections, kind)
		items, err := fn(cmd.Context(), ops)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid record", err)
		}
		return out.Render(items, func(w io.Writer) error {
			return writeRecords(w, items)
		})
	})
}

// writeRecords prints one canonical JSON object per line.
func writeRecords(w io.Writer, items any) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	for _, item := range list {
		line, err := entity.MarshalCanonical(item)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(line))
	}
	return nil
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// readArg returns arg, or stdin when arg is "-".
func readArg(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read stdin", err)
	}
	return data, nil
}

func kindList() string {
	kinds := entity.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
