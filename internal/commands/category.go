package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/model"
)

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoryAddCommand(a))
	cmd.AddCommand(newCategoryEditCommand(a))
	cmd.AddCommand(newCategoryDeleteCommand(a))
	cmd.AddCommand(newCategoryListCommand(a))
	return cmd
}

func newCategoryAddCommand(a *app) *cobra.Command {
	var name, catType, color, icon string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				cat, err := e.AddCategory(cmd.Context(), ledger.NewCategory{
					Name:  name,
					Type:  model.TransactionType(catType),
					Color: color,
					Icon:  icon,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s category %s (%s)\n", cat.Type, cat.Name, cat.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "category name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&catType, "type", string(model.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVar(&color, "color", "#A855F7", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

// findCategory looks a category up by ID or case-insensitive name across
// both types.
func findCategory(e *ledger.Engine, ref string) (model.Category, error) {
	if cat, ok := e.Category(ref); ok {
		return cat, nil
	}
	for _, cat := range e.Categories() {
		if strings.EqualFold(cat.Name, ref) {
			return cat, nil
		}
	}
	return model.Category{}, fmt.Errorf("%w: %q", ledger.ErrCategoryNotFound, ref)
}

func newCategoryEditCommand(a *app) *cobra.Command {
	var name, catType, color, icon string
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				cat, err := findCategory(e, args[0])
				if err != nil {
					return err
				}
				changed := cmd.Flags().Changed
				if changed("name") {
					cat.Name = name
				}
				if changed("type") {
					cat.Type = model.TransactionType(catType)
				}
				if changed("color") {
					cat.Color = color
				}
				if changed("icon") {
					cat.Icon = icon
				}
				if err := e.UpdateCategory(cmd.Context(), cat); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", cat.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&catType, "type", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

func newCategoryDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a category without transactions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				cat, err := findCategory(e, args[0])
				if err != nil {
					return err
				}
				if err := e.DeleteCategory(cmd.Context(), cat.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", cat.Name)
				return nil
			})
		},
	}
}

func newCategoryListCommand(a *app) *cobra.Command {
	var catType string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				cats := e.Categories()
				if catType != "" {
					cats = e.CategoriesByType(model.TransactionType(catType))
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tTYPE")
				for _, c := range cats {
					fmt.Fprintf(tw, "%s\t%s %s\t%s\n", c.ID, c.Icon, c.Name, c.Type)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&catType, "type", "", "only income or expense categories")
	return cmd
}
