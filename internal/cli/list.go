package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/signbay/provision/internal/core/domain"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List provisioning profiles",
	Long: `List the provisioning profiles on the account.

Profiles managed by Xcode are never shown; they are not under this tool's
control.

Examples:
  provision list
  provision list --kind development
  provision list --bundle-id com.example.app --output json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringP("kind", "k", "", "Filter by profile kind (development, appstore, adhoc, inhouse)")
	listCmd.Flags().StringP("bundle-id", "b", "", "Filter by owning app bundle id")
	listCmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	bundleID, _ := cmd.Flags().GetString("bundle-id")
	output, _ := cmd.Flags().GetString("output")

	service, err := newService(newLogger())
	if err != nil {
		return err
	}

	var profiles []*domain.Profile
	switch {
	case bundleID != "":
		profiles, err = service.FindByBundleID(cmd.Context(), bundleID)
	case kindFlag != "":
		kind, parseErr := domain.ParseProfileKind(kindFlag)
		if parseErr != nil {
			return fmt.Errorf("%w: %v", ErrUsage, parseErr)
		}
		profiles, err = service.ListAll(cmd.Context(), kind)
	default:
		profiles, err = service.ListAll(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRuntime, err)
	}

	switch output {
	case "json":
		return printProfilesJSON(profiles)
	case "table":
		return printProfilesTable(profiles)
	}
	return fmt.Errorf("%w: unsupported output %q, use 'table' or 'json'", ErrUsage, output)
}

type profileRow struct {
	ID       string `json:"id"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	BundleID string `json:"bundle_id"`
	Expires  string `json:"expires"`
}

func profileRows(profiles []*domain.Profile) []profileRow {
	rows := make([]profileRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, profileRow{
			ID:       p.ID,
			UUID:     p.UUID,
			Name:     p.Name,
			Kind:     p.Kind().String(),
			Status:   string(p.Status),
			BundleID: p.App.BundleID,
			Expires:  p.Expires.Format("2006-01-02"),
		})
	}
	return rows
}

func printProfilesJSON(profiles []*domain.Profile) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(profileRows(profiles)); err != nil {
		return fmt.Errorf("%w: failed to encode profiles as JSON: %v", ErrInternal, err)
	}
	return nil
}

func printProfilesTable(profiles []*domain.Profile) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tSTATUS\tBUNDLE ID\tEXPIRES\tID")
	for _, row := range profileRows(profiles) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Kind, row.Status, row.BundleID, row.Expires, row.ID)
	}
	return w.Flush()
}
