package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

var (
	reportAs    int64
	reportStart string
	reportEnd   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print work reports as JSON",
}

var reportEmployeeCmd = &cobra.Command{
	Use:   "employee <user-id>",
	Short: "Report the approved work of one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  reportEmployee,
}

func init() {
	reportEmployeeCmd.Flags().Int64Var(&reportAs, "as", 0, "User id the report is generated for (defaults to the employee)")
	reportEmployeeCmd.Flags().StringVar(&reportStart, "start", "", "First completion date, YYYY-MM-DD")
	reportEmployeeCmd.Flags().StringVar(&reportEnd, "end", "", "Last completion date, YYYY-MM-DD")
	reportCmd.AddCommand(reportEmployeeCmd)
}

func reportEmployee(cmd *cobra.Command, args []string) error {
	employeeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || employeeID <= 0 {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	actor := reportAs
	if actor == 0 {
		actor = employeeID
	}

	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.svc.EmployeeReport(cmd.Context(), actor, employeeID, service.ParsePeriod(reportStart, reportEnd))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(dto.EmployeeReport(report))
}
