package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/controller"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/model"
	"github.com/goliatone/go-storeadmin/pkg/renderers/tui"
)

func newFormCmd(a *app) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "form <entity> [id]",
		Short: "Create, edit or delete a record from terminal prompts",
		Long: `form opens the create form of an entity, or its edit form when an id is
given. Settings always edit the store selected with --store.`,
		Example: `  storeadmin form billboards --store 7f3c
  storeadmin form product 0b1e --store 7f3c
  storeadmin form sizes 91aa --store 7f3c --delete`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.catalog.Resolve(args[0])
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 2 {
				id = args[1]
			}
			_, err = a.form(cmd.Context(), def, id, remove)
			return err
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the record instead of editing it")
	return cmd
}

// form runs one prompt session against the API and returns the path the
// controller navigated to, if any.
func (a *app) form(ctx context.Context, def entity.Definition, id string, remove bool) (string, error) {
	scope, err := a.scope(def)
	if err != nil {
		return "", err
	}
	if def.EditOnly {
		id = scope.StoreID
	}
	if remove && id == "" {
		return "", fmt.Errorf("deleting %s needs a record id", def.Singular)
	}

	api, err := a.client()
	if err != nil {
		return "", err
	}

	var record *model.Record
	if id != "" {
		path, err := def.ItemPath(scope, id)
		if err != nil {
			return "", err
		}
		fetched, err := api.Get(ctx, path)
		if err != nil {
			return "", fmt.Errorf("load %s %s: %w", def.Singular, id, err)
		}
		record = &fetched
	}

	session := tui.New(
		tui.WithOutput(a.out),
		tui.WithPrompter(a.prompter),
		tui.WithChoices(api),
		tui.WithTheme(tui.Theme{InfoPrefix: "", ErrorPrefix: "! "}),
		tui.WithLogger(a.logger.With().Str("component", "tui").Logger()),
	)

	var (
		visited string
		ctrl    *controller.Controller
	)
	ctrl, err = controller.New(def, scope, record,
		controller.WithSender(api),
		controller.WithRefresher(controller.RefreshFunc(func(ctx context.Context) error {
			return reload(ctx, api, ctrl)
		})),
		controller.WithNotifier(session.Notifier()),
		controller.WithNavigator(controller.NavigateFunc(func(_ context.Context, path string) error {
			visited = path
			return nil
		})),
		controller.WithLogger(a.logger.With().Str("component", "controller").Logger()),
		controller.WithTracerProvider(a.tp),
	)
	if err != nil {
		return "", err
	}

	if remove {
		err = session.Delete(ctx, ctrl)
	} else {
		_, err = session.Edit(ctx, ctrl)
	}
	switch {
	case errors.Is(err, tui.ErrCancelled), errors.Is(err, tui.ErrAborted):
		fmt.Fprintln(a.out, "Nothing changed.")
		return "", nil
	case err != nil:
		return "", quiet(err)
	}
	return visited, nil
}

// reload re-fetches the saved record so the form shows what the API
// stored. Deleted records have nothing to reload.
func reload(ctx context.Context, api *client.Client, ctrl *controller.Controller) error {
	state := ctrl.State()
	if state.Phase == controller.PhaseTerminated || !state.Mode.IsEdit() {
		return nil
	}
	path, err := ctrl.Definition().ItemPath(ctrl.Scope(), state.Mode.RecordID())
	if err != nil {
		return err
	}
	fresh, err := api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	return ctrl.Reload(fresh)
}

// quiet drops errors the session already reported to the user so the
// command only sets the exit status.
func quiet(err error) error {
	var ctrlErr *controller.Error
	if errors.As(err, &ctrlErr) {
		return errReported
	}
	return err
}
