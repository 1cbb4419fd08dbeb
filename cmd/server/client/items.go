package client

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
)

var (
	unresearch bool
	category   string
)

var addCmd = &cobra.Command{
	Use:   "add [session-id] [item-id]",
	Short: "Add a catalog item to the inventory",
	Long: `Add one copy of a catalog item. Examples:

  add sess_1234 weapon.flintlock_pistol
  add sess_1234 ring.fire_01`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodAddItem, map[string]any{
			"session_id": args[0],
			"item_id":    args[1],
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [session-id] [item]",
	Short: "Remove every trace of an item",
	Long: `Remove an item by catalog id or target. Examples:

  remove sess_1234 weapon.flintlock_pistol
  remove sess_1234 weapon:HandCannon.Light`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodRemoveItem, map[string]any{
			"session_id": args[0],
			"item":       args[1],
		})
	},
}

var setTierCmd = &cobra.Command{
	Use:   "set-tier [session-id] [item] [tier]",
	Short: "Set the mastery tier of an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return callAndPrint(cmd, v1alpha1.MethodSetTier, map[string]any{
			"session_id": args[0],
			"item":       args[1],
			"tier":       tier,
		})
	},
}

var tierCmd = &cobra.Command{
	Use:   "tier [session-id] [item]",
	Short: "Show the mastery tier of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodGetTier, map[string]any{
			"session_id": args[0],
			"item":       args[1],
		})
	},
}

var researchCmd = &cobra.Command{
	Use:   "research [session-id] [item]",
	Short: "Mark an item as researched",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodSetResearched, map[string]any{
			"session_id": args[0],
			"item":       args[1],
			"researched": !unresearch,
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count [session-id] [item]",
	Short: "Count inventory copies of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodCountInInventory, map[string]any{
			"session_id": args[0],
			"item":       args[1],
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list [session-id]",
	Short: "List the inventory of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAndPrint(cmd, v1alpha1.MethodListInventory, map[string]any{"session_id": args[0]})
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog items the server can add",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields := map[string]any{}
		if category != "" {
			fields["category"] = category
		}
		return callAndPrint(cmd, v1alpha1.MethodListCatalog, fields)
	},
}

func init() {
	researchCmd.Flags().BoolVar(&unresearch, "undo", false, "clear the researched flag instead")
	catalogCmd.Flags().StringVar(&category, "category", "", "only list one category (weapon, ring, ...)")
}
