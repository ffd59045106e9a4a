package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/render"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newListCmd(a *app) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Print the data table of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.catalog.Resolve(args[0])
			if err != nil {
				return err
			}
			if def.EditOnly || len(def.Columns) == 0 {
				return fmt.Errorf("%s has no table", def.Title)
			}
			scope, err := a.scope(def)
			if err != nil {
				return err
			}
			api, err := a.client()
			if err != nil {
				return err
			}
			view, err := tableView(cmd.Context(), api, def, scope, query)
			if err != nil {
				return err
			}
			printTable(a, view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter rows on the search column")
	return cmd
}

// tableView loads the records and the labels of every looked-up column.
func tableView(ctx context.Context, api *client.Client, def entity.Definition, scope entity.Scope, query string) (render.TableView, error) {
	path, err := def.CollectionPath(scope)
	if err != nil {
		return render.TableView{}, err
	}
	records, err := api.List(ctx, path)
	if err != nil {
		return render.TableView{}, err
	}

	var lookups render.Lookups
	for _, field := range def.Form.Fields {
		if field.Relationship == nil {
			continue
		}
		choices, err := api.Choices(ctx, *field.Relationship, scope)
		if err != nil {
			return render.TableView{}, err
		}
		lookups = render.LookupsFromChoices(entity.Kind(field.Relationship.Kind), choices, lookups)
	}
	return render.BuildTable(def, scope, records, lookups, query), nil
}

func printTable(a *app, view render.TableView) {
	fmt.Fprintln(a.out, view.Title)
	if len(view.Rows) == 0 {
		fmt.Fprintln(a.out, "No results.")
		return
	}

	headers := append([]string{"ID"}, view.Columns...)
	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.ID)
		for _, cell := range row.Cells {
			cells = append(cells, strings.TrimSpace(cell.Text))
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(a.out, t.Render())
}
